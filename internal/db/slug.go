package db

import (
	"encoding/json"
	"strings"

	"github.com/adamavenir/slackdump-render/internal/types"
)

// IsPrivateChannel reports whether a channel row is a direct or group message.
func IsPrivateChannel(row types.ChannelRow) bool {
	name := ""
	if row.Name != nil {
		name = *row.Name
	}
	return strings.HasPrefix(name, "mpdm-") || strings.HasPrefix(row.ID, "D")
}

// DeriveChannelNames computes the display name and page slug for a channel.
//
// Group DMs named "mpdm-alice--bob--carol-1" become "alice, bob, carol" with
// slug "@alice+bob+carol". One-to-one DMs without a name take the other
// user's name. Channels without any name fall back to their id. Private
// slugs get an "@" prefix, public names a "#" prefix.
func DeriveChannelNames(row types.ChannelRow, users types.UserDirectory) (name, slug string) {
	private := IsPrivateChannel(row)
	if row.Name != nil {
		name = *row.Name
	}

	if private {
		switch {
		case strings.HasPrefix(name, "mpdm-"):
			participants := mpdmParticipants(name)
			slug = strings.Join(participants, "+")
			name = strings.Join(participants, ", ")
		case strings.HasPrefix(row.ID, "D") && name == "" && row.Data != nil:
			var data types.ChannelData
			if err := json.Unmarshal([]byte(*row.Data), &data); err == nil && data.User != "" {
				if user, ok := users.LookupUser(data.User); ok {
					name = user.Name
				}
			}
		}
	}

	if name == "" {
		name = row.ID
	}
	if slug == "" {
		slug = name
	}
	if slug == "" {
		slug = "private-id"
	}
	if private {
		slug = "@" + slug
	} else {
		name = "#" + name
	}
	return name, slug
}

// mpdmParticipants extracts user names from "mpdm-a--b--c-1".
func mpdmParticipants(name string) []string {
	if idx := strings.LastIndex(name, "-"); idx >= 0 {
		name = name[:idx]
	}
	if len(name) < len("mpdm-") {
		return []string{""}
	}
	name = name[len("mpdm-"):]
	return strings.Split(name, "--")
}
