package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/adamavenir/slackdump-render/internal/types"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func requireSchema(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
}

func strPtr(value string) *string {
	return &value
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

type fakeBlobs struct {
	avatars map[string]string
	uploads map[string]string
}

func (f fakeBlobs) Avatar(userID string) *string {
	path, ok := f.avatars[userID]
	if !ok {
		return nil
	}
	return &path
}

func (f fakeBlobs) Upload(file types.FileData) *types.File {
	path, ok := f.uploads[file.ID]
	if !ok {
		return nil
	}
	return &types.File{ID: file.ID, Name: file.Name, Path: path, MimeType: file.MimeType}
}

func findChannel(t *testing.T, archive *Archive, id string) *types.Channel {
	t.Helper()
	for _, channel := range archive.Channels {
		if channel.ID == id {
			return channel
		}
	}
	t.Fatalf("channel %s not loaded", id)
	return nil
}

func messageIDs(messages []*types.Message) []string {
	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
	}
	return ids
}
