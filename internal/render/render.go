package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/adamavenir/slackdump-render/internal/core"
	"github.com/adamavenir/slackdump-render/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	channelTemplate = "channel.html"
	indexTemplate   = "index.html"
	mentionTemplate = "user-mention.html"
)

// ChannelPage is the model handed to the channel template.
type ChannelPage struct {
	Channel   *types.Channel
	Messages  []*types.Message
	Channels  []*types.Channel
	ShowIndex bool
}

// IndexEntry summarizes one channel on the index page.
type IndexEntry struct {
	Channel  *types.Channel
	Members  int
	Messages int
	Threads  int
}

// IndexPage is the model handed to the index template.
type IndexPage struct {
	Title   string
	Entries []IndexEntry
}

// Renderer turns prepared record models into HTML. It is safe for
// concurrent use once created.
type Renderer struct {
	templates *template.Template
	users     types.UserDirectory
}

// NewRenderer parses the embedded templates. users resolves mentions and
// must not change while pages render.
func NewRenderer(users types.UserDirectory) (*Renderer, error) {
	tmpl, err := template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl, users: users}, nil
}

// Mention renders the fragment that replaces a <@USERID> token.
func (r *Renderer) Mention(user *types.User) string {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, mentionTemplate, user); err != nil {
		return "@" + html.EscapeString(user.Name)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// PrepareChannel renders every message body of the channel and returns the
// messages in display order.
func (r *Renderer) PrepareChannel(channel *types.Channel) []*types.Message {
	for _, msg := range channel.Messages {
		msg.Rendered = core.RenderText(msg.Text, r.users, r.Mention)
	}
	return core.FlattenThreads(channel.Messages)
}

// WriteChannel executes the channel template.
func (r *Renderer) WriteChannel(w io.Writer, page ChannelPage) error {
	return r.templates.ExecuteTemplate(w, channelTemplate, page)
}

// WriteIndex executes the index template.
func (r *Renderer) WriteIndex(w io.Writer, page IndexPage) error {
	return r.templates.ExecuteTemplate(w, indexTemplate, page)
}

// NewIndexPage builds the index model for channels.
func NewIndexPage(title string, channels []*types.Channel) IndexPage {
	entries := make([]IndexEntry, 0, len(channels))
	for _, channel := range channels {
		entries = append(entries, IndexEntry{
			Channel:  channel,
			Members:  len(channel.Members),
			Messages: len(channel.Messages),
			Threads:  core.CountThreads(channel.Messages),
		})
	}
	return IndexPage{Title: title, Entries: entries}
}
