package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDBName is the file slackdump writes inside an archive directory.
const DefaultDBName = "slackdump.sqlite"

// DefaultOutputDirName is created next to the database when no output is given.
const DefaultOutputDirName = "html"

// Archive represents a slackdump archive on disk.
type Archive struct {
	DBPath    string
	InputDir  string
	OutputDir string
}

// DiscoverArchive resolves the database file and the input/output
// directories. path may name the database itself or the directory holding it.
func DiscoverArchive(path, outputDir string) (Archive, error) {
	if path == "" {
		return Archive{}, fmt.Errorf("archive path is required")
	}
	dbPath, err := filepath.Abs(path)
	if err != nil {
		return Archive{}, err
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Archive{}, fmt.Errorf("archive not found: %s", path)
		}
		return Archive{}, err
	}
	if info.IsDir() {
		dbPath = filepath.Join(dbPath, DefaultDBName)
		if _, err := os.Stat(dbPath); err != nil {
			return Archive{}, fmt.Errorf("no %s in %s", DefaultDBName, path)
		}
	}

	inputDir := filepath.Dir(dbPath)
	if outputDir == "" {
		outputDir = filepath.Join(inputDir, DefaultOutputDirName)
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return Archive{}, err
	}

	return Archive{DBPath: dbPath, InputDir: inputDir, OutputDir: outputDir}, nil
}

// EnsureOutputDir creates the output directory if needed.
func EnsureOutputDir(archive Archive) error {
	return os.MkdirAll(archive.OutputDir, 0o755)
}
