package types

import "time"

// User represents an archived workspace member.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RealName   *string `json:"real_name,omitempty"`
	AvatarPath *string `json:"avatar_path,omitempty"`
}

// DisplayName returns the real name when known, otherwise the user name.
func (u *User) DisplayName() string {
	if u.RealName != nil && *u.RealName != "" {
		return *u.RealName
	}
	return u.Name
}

// Channel represents a conversation rendered as one page.
type Channel struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	IsPrivate bool       `json:"is_private"`
	Members   []*User    `json:"-"`
	Messages  []*Message `json:"-"`
}

// File represents an uploaded attachment resolved on disk.
type File struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	MimeType      string  `json:"mimetype,omitempty"`
	Size          int64   `json:"size,omitempty"`
}

// Message represents a channel message.
// Parent and Children are associations; the owning Channel holds every message.
type Message struct {
	ID       string
	Date     time.Time
	Text     *string
	User     *User
	Files    []*File
	Children []*Message
	Parent   *Message
	// Rendered is the HTML produced from Text.
	Rendered string
}

// Link attaches child to parent. The first parent claim wins and a message
// never becomes its own child.
func Link(parent, child *Message) bool {
	if parent == nil || child == nil || parent == child || parent.ID == child.ID {
		return false
	}
	if child.Parent != nil {
		return false
	}
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	return true
}

// UserDirectory resolves user ids.
type UserDirectory interface {
	LookupUser(id string) (*User, bool)
}

// Users is a UserDirectory keyed by user id.
type Users map[string]*User

// LookupUser implements UserDirectory.
func (u Users) LookupUser(id string) (*User, bool) {
	user, ok := u[id]
	return user, ok && user != nil
}

// UserRow is a raw S_USER row.
type UserRow struct {
	ID       string
	Username *string
	Data     *string
}

// ChannelRow is a raw CHANNEL row.
type ChannelRow struct {
	ID   string
	Name *string
	Data *string
}

// MembershipRow is a raw CHANNEL_USER row.
type MembershipRow struct {
	ChannelID string
	UserID    string
}

// MessageRow is a raw MESSAGE row. TS keeps the driver value since
// archives store it as TEXT, REAL or INTEGER.
type MessageRow struct {
	ID        string
	TS        any
	ChannelID string
	ParentID  *string
	Data      *string
}

// UserData is the parsed S_USER.DATA blob.
type UserData struct {
	RealName string `json:"real_name"`
}

// ChannelData is the parsed CHANNEL.DATA blob.
type ChannelData struct {
	User string `json:"user"`
}

// FileData describes an attachment inside a message blob.
type FileData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimetype"`
}

// MessageData is the parsed MESSAGE.DATA blob.
type MessageData struct {
	User  string     `json:"user"`
	Text  *string    `json:"text"`
	Files []FileData `json:"files"`
}
