package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/adamavenir/slackdump-render/internal/types"
)

const (
	avatarsDir = "__avatars"
	uploadsDir = "__uploads"
)

// Resolver finds avatar and upload files inside an archive directory and
// returns their paths relative to the output directory.
type Resolver struct {
	InputDir  string
	OutputDir string
	ignore    []glob.Glob
}

// NewResolver builds a resolver. Entries whose base name matches one of the
// ignore patterns (for example ".*") are never picked.
func NewResolver(inputDir, outputDir string, ignore []string) (*Resolver, error) {
	resolver := &Resolver{InputDir: inputDir, OutputDir: outputDir}
	for _, pattern := range ignore {
		if pattern == "" {
			continue
		}
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		resolver.ignore = append(resolver.ignore, compiled)
	}
	return resolver, nil
}

// Avatar returns the avatar path for a user, or nil when none was archived.
func (r *Resolver) Avatar(userID string) *string {
	path, _, ok := r.firstEntry(avatarsDir, userID)
	if !ok {
		return nil
	}
	return &path
}

// Upload resolves an attachment. It returns nil when the file was not
// downloaded into the archive.
func (r *Resolver) Upload(file types.FileData) *types.File {
	if file.ID == "" {
		return nil
	}
	path, abs, ok := r.firstEntry(uploadsDir, file.ID)
	if !ok {
		return nil
	}

	resolved := &types.File{
		ID:       file.ID,
		Name:     file.Name,
		Path:     path,
		MimeType: file.MimeType,
	}
	if resolved.Name == "" {
		resolved.Name = filepath.Base(path)
	}
	if strings.HasPrefix(file.MimeType, "image/") {
		thumbnail := path
		resolved.ThumbnailPath = &thumbnail
	}
	if info, err := os.Stat(abs); err == nil {
		resolved.Size = info.Size()
	}
	return resolved
}

// firstEntry returns the first usable entry of <input>/<kind>/<id>, both
// relative to the output directory and absolute.
func (r *Resolver) firstEntry(kind, id string) (string, string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", "", false
	}
	dir := filepath.Join(r.InputDir, kind, id)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", false
	}
	for _, entry := range entries {
		if entry.IsDir() || r.ignored(entry.Name()) {
			continue
		}
		abs := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(r.OutputDir, abs)
		if err != nil {
			return "", "", false
		}
		return filepath.ToSlash(rel), abs, true
	}
	return "", "", false
}

func (r *Resolver) ignored(name string) bool {
	for _, pattern := range r.ignore {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}
