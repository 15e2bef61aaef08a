package command

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adamavenir/slackdump-render/internal/core"
	"github.com/adamavenir/slackdump-render/internal/db"
)

type messageData struct {
	User string `json:"user"`
	Text string `json:"text"`
}

func writeTestArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	conn, err := sql.Open("sqlite", filepath.Join(dir, core.DefaultDBName))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	steps := []error{
		db.AddUser(conn, "U1", "alice", map[string]string{"real_name": "Alice Adams"}),
		db.AddUser(conn, "U2", "bob", nil),
		db.AddChannel(conn, "C1", "general", nil),
		db.AddChannel(conn, "D1", "", map[string]string{"user": "U2"}),
		db.AddMember(conn, "C1", "U1"),
		db.AddMember(conn, "C1", "U2"),
		db.AddMessage(conn, 1, "C1", "1700000000.000000", "", messageData{User: "U1", Text: "*welcome* <@U2>"}),
		db.AddMessage(conn, 2, "C1", "1700000001.000000", "1", messageData{User: "U2", Text: "thanks :smile:"}),
		db.AddMessage(conn, 3, "D1", "1700000002.000000", "", messageData{User: "U2", Text: "psst"}),
	}
	if err := errors.Join(steps...); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "__avatars", "U1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "__avatars", "U1", "alice.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write avatar: %v", err)
	}
	return dir
}

func TestRenderCommand(t *testing.T) {
	dir := writeTestArchive(t)
	out := filepath.Join(t.TempDir(), "site")

	output, err := executeCommand(NewRootCmd("test"), "render", dir, "-o", out, "--workers", "2")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Rendered 2 channels") {
		t.Fatalf("unexpected output: %q", output)
	}

	general, err := os.ReadFile(filepath.Join(out, "general.html"))
	if err != nil {
		t.Fatalf("read general: %v", err)
	}
	for _, want := range []string{"<strong>welcome</strong>", `href="#user-U2"`, "alice.png", `class="message reply"`} {
		if !strings.Contains(string(general), want) {
			t.Fatalf("expected general page to contain %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "@bob.html")); err != nil {
		t.Fatalf("expected dm page: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "index.html")); err != nil {
		t.Fatalf("expected index page: %v", err)
	}
}

func TestRenderCommandOnlyPublicAndConfig(t *testing.T) {
	dir := writeTestArchive(t)
	out := filepath.Join(t.TempDir(), "site")
	configPath := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(configPath, []byte("output: "+out+"\nno_index: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	output, err := executeCommand(NewRootCmd("test"), "render", filepath.Join(dir, core.DefaultDBName), "--config", configPath, "-p")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Rendered 1 channels") {
		t.Fatalf("unexpected output: %q", output)
	}
	if _, err := os.Stat(filepath.Join(out, "general.html")); err != nil {
		t.Fatalf("expected general page: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "@bob.html")); !os.IsNotExist(err) {
		t.Fatal("expected private channel to be skipped")
	}
	if _, err := os.Stat(filepath.Join(out, "index.html")); !os.IsNotExist(err) {
		t.Fatal("expected index to be disabled by config")
	}
}

func TestRenderCommandMissingArchive(t *testing.T) {
	output, err := executeCommand(NewRootCmd("test"), "render", filepath.Join(t.TempDir(), "missing.sqlite"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(output, "Error: archive not found") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestChannelsCommandJSON(t *testing.T) {
	dir := writeTestArchive(t)

	output, err := executeCommand(NewRootCmd("test"), "channels", dir, "--json", "-c", "gen*", "--log-level", "error")
	if err != nil {
		t.Fatalf("channels: %v\n%s", err, output)
	}

	var summaries []channelSummary
	if err := json.Unmarshal([]byte(output), &summaries); err != nil {
		t.Fatalf("decode: %v\n%s", err, output)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one channel, got %+v", summaries)
	}
	got := summaries[0]
	if got.Slug != "general" || got.Members != 2 || got.Messages != 2 || got.Threads != 1 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestChannelsCommandText(t *testing.T) {
	dir := writeTestArchive(t)

	output, err := executeCommand(NewRootCmd("test"), "channels", dir)
	if err != nil {
		t.Fatalf("channels: %v\n%s", err, output)
	}
	if !strings.Contains(output, "general  #general  2 members, 2 messages, 1 threads") {
		t.Fatalf("unexpected output: %q", output)
	}
	if !strings.Contains(output, "@bob  bob (private)") {
		t.Fatalf("expected dm listed, got %q", output)
	}
}

func TestIsSchemaError(t *testing.T) {
	if !isSchemaError(errors.New("SQL logic error: no such table: MESSAGE")) {
		t.Fatal("expected schema error")
	}
	if isSchemaError(errors.New("disk full")) || isSchemaError(nil) {
		t.Fatal("expected non-schema error")
	}
}
