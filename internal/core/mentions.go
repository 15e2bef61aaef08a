package core

import (
	"regexp"

	"github.com/adamavenir/slackdump-render/internal/types"
)

var mentionRe = regexp.MustCompile(`<@([A-Z0-9]+)>`)

// ResolveMentions replaces <@USERID> tokens in rendered HTML with the
// fragment produced by render. Tokens for unknown users stay as written.
func ResolveMentions(html string, users types.UserDirectory, render func(*types.User) string) string {
	if users == nil || render == nil {
		return html
	}
	return mentionRe.ReplaceAllStringFunc(html, func(token string) string {
		user, ok := users.LookupUser(token[2 : len(token)-1])
		if !ok {
			return token
		}
		return render(user)
	})
}

// RenderText runs a raw message body through the full text pipeline:
// emoji, markup, then mentions. Mentions go last so the tokens survive the
// link pass untouched and rendered fragments are never re-processed.
func RenderText(text *string, users types.UserDirectory, render func(*types.User) string) string {
	if text == nil {
		return ""
	}
	return ResolveMentions(ConvertMarkup(ExpandEmoji(*text)), users, render)
}
