package db

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/adamavenir/slackdump-render/internal/types"
)

// BlobResolver locates avatars and uploaded files on disk.
type BlobResolver interface {
	Avatar(userID string) *string
	Upload(file types.FileData) *types.File
}

// LoadOptions controls which channels are loaded.
type LoadOptions struct {
	// OnlyPublic drops direct and group messages.
	OnlyPublic bool
	// Channels limits loading to channels whose id or name matches one of
	// these glob patterns. Empty means all channels.
	Channels []string
	Blobs    BlobResolver
	Logger   logrus.FieldLogger
}

// Archive is the loaded record model.
type Archive struct {
	Users    types.Users
	Channels []*types.Channel
}

// ChannelFilter matches channel ids and names against allow-list patterns.
type ChannelFilter struct {
	patterns []glob.Glob
}

// NewChannelFilter compiles allow-list patterns.
func NewChannelFilter(patterns []string) (*ChannelFilter, error) {
	filter := &ChannelFilter{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid channel pattern %q: %w", pattern, err)
		}
		filter.patterns = append(filter.patterns, compiled)
	}
	return filter, nil
}

// Allows reports whether the channel passes the allow-list.
func (f *ChannelFilter) Allows(row types.ChannelRow) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	for _, pattern := range f.patterns {
		if pattern.Match(row.ID) {
			return true
		}
		if row.Name != nil && pattern.Match(*row.Name) {
			return true
		}
	}
	return false
}

// LoadArchive reads users, channels, memberships and messages and builds
// the record model. Inclusion decisions happen here and nowhere else.
func LoadArchive(db DBTX, opts LoadOptions) (*Archive, error) {
	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	filter, err := NewChannelFilter(opts.Channels)
	if err != nil {
		return nil, err
	}

	users, err := loadUsers(db, opts.Blobs, logger)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	logger.Infof("loaded %d users", len(users))

	channels, err := loadChannels(db, users, filter, opts.OnlyPublic)
	if err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	logger.Infof("loaded %d channels", len(channels))
	byID := make(map[string]*types.Channel, len(channels))
	ids := make([]string, 0, len(channels))
	for _, channel := range channels {
		byID[channel.ID] = channel
		ids = append(ids, channel.ID)
	}

	if err := loadMembers(db, ids, byID, users); err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	members := 0
	for _, channel := range channels {
		members += len(channel.Members)
	}
	logger.Infof("loaded %d channel members", members)
	if err := loadMessages(db, ids, byID, users, opts.Blobs, logger); err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	return &Archive{Users: users, Channels: channels}, nil
}

func loadUsers(db DBTX, blobs BlobResolver, logger logrus.FieldLogger) (types.Users, error) {
	rows, err := GetUserRows(db)
	if err != nil {
		return nil, err
	}

	users := make(types.Users, len(rows))
	for _, row := range rows {
		if row.Username == nil {
			continue
		}
		user := &types.User{ID: row.ID, Name: *row.Username}
		if row.Data != nil && *row.Data != "" {
			var data types.UserData
			if err := json.Unmarshal([]byte(*row.Data), &data); err != nil {
				logger.WithFields(logrus.Fields{"user": row.ID}).Warnf("invalid user data: %v", err)
			} else if data.RealName != "" {
				realName := data.RealName
				user.RealName = &realName
			}
		}
		if blobs != nil {
			user.AvatarPath = blobs.Avatar(row.ID)
		}
		users[row.ID] = user
	}
	return users, nil
}

func loadChannels(db DBTX, users types.Users, filter *ChannelFilter, onlyPublic bool) ([]*types.Channel, error) {
	rows, err := GetChannelRows(db)
	if err != nil {
		return nil, err
	}

	var channels []*types.Channel
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		if !filter.Allows(row) {
			continue
		}
		private := IsPrivateChannel(row)
		if private && onlyPublic {
			continue
		}
		name, slug := DeriveChannelNames(row, users)
		channel := &types.Channel{ID: row.ID, Name: name, Slug: slug, IsPrivate: private}

		// A later load of the same channel replaces the earlier one in place.
		if idx, ok := index[row.ID]; ok {
			channels[idx] = channel
			continue
		}
		index[row.ID] = len(channels)
		channels = append(channels, channel)
	}
	return channels, nil
}

func loadMembers(db DBTX, channelIDs []string, channels map[string]*types.Channel, users types.Users) error {
	rows, err := GetMembershipRows(db, channelIDs)
	if err != nil {
		return err
	}

	seen := make(map[[2]string]struct{}, len(rows))
	for _, row := range rows {
		channel, ok := channels[row.ChannelID]
		if !ok {
			continue
		}
		user, ok := users[row.UserID]
		if !ok {
			continue
		}
		key := [2]string{row.ChannelID, row.UserID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		channel.Members = append(channel.Members, user)
	}
	return nil
}

func loadMessages(db DBTX, channelIDs []string, channels map[string]*types.Channel, users types.Users, blobs BlobResolver, logger logrus.FieldLogger) error {
	rows, err := GetMessageRows(db, channelIDs)
	if err != nil {
		return err
	}

	// Messages are indexed per channel; the first row for an id wins. Rows
	// arrive in TS order, so a parent link only reaches messages already seen.
	index := make(map[string]map[string]*types.Message, len(channels))
	loaded := 0

	for _, row := range rows {
		channel, ok := channels[row.ChannelID]
		if !ok {
			continue
		}
		fields := logrus.Fields{"channel": row.ChannelID, "message": row.ID}

		if row.Data == nil {
			logger.WithFields(fields).Debug("skipping message without data")
			continue
		}
		var data types.MessageData
		if err := json.Unmarshal([]byte(*row.Data), &data); err != nil {
			logger.WithFields(fields).Warnf("invalid message data: %v", err)
			continue
		}
		if data.User == "" {
			continue
		}
		author, ok := users[data.User]
		if !ok {
			logger.WithFields(fields).Debugf("skipping message from unknown user %s", data.User)
			continue
		}
		date, err := ParseTimestamp(row.TS)
		if err != nil {
			logger.WithFields(fields).Warnf("skipping message: %v", err)
			continue
		}

		byID := index[row.ChannelID]
		if byID == nil {
			byID = make(map[string]*types.Message)
			index[row.ChannelID] = byID
		}
		if _, dup := byID[row.ID]; dup {
			logger.WithFields(fields).Debug("skipping duplicate message")
			continue
		}

		message := &types.Message{
			ID:   row.ID,
			Date: date,
			Text: data.Text,
			User: author,
		}
		if blobs != nil {
			for _, file := range data.Files {
				if resolved := blobs.Upload(file); resolved != nil {
					message.Files = append(message.Files, resolved)
				}
			}
		}

		if row.ParentID != nil && *row.ParentID != "" && *row.ParentID != row.ID {
			parent, ok := byID[*row.ParentID]
			switch {
			case !ok:
				logger.WithFields(fields).Debugf("unknown parent %s", *row.ParentID)
			case !types.Link(parent, message):
				logger.WithFields(fields).Debugf("ignoring parent claim %s", *row.ParentID)
			}
		}
		byID[row.ID] = message
		channel.Messages = append(channel.Messages, message)
		loaded++
	}

	logger.Infof("loaded %d messages", loaded)
	return nil
}
