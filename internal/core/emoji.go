package core

import (
	"regexp"
	"sync"

	"github.com/kyokomi/emoji/v2"
)

var (
	emojiAliasRe = regexp.MustCompile(`:[a-zA-Z0-9_+\-]+:`)
	emojiCodeRe  = regexp.MustCompile(`:([a-z0-9_]+):`)

	emojiCodesOnce sync.Once
	emojiCodes     map[string]string
)

func emojiCodeMap() map[string]string {
	emojiCodesOnce.Do(func() {
		emojiCodes = emoji.CodeMap()
	})
	return emojiCodes
}

// ExpandEmoji replaces known :alias: shortcodes with their Unicode emoji and
// wraps the codes that remain (custom workspace emoji) in a styling span.
func ExpandEmoji(raw string) string {
	codes := emojiCodeMap()
	text := emojiAliasRe.ReplaceAllStringFunc(raw, func(token string) string {
		if value, ok := codes[token]; ok {
			return value
		}
		return token
	})
	return emojiCodeRe.ReplaceAllString(text, `<span class="emoji">:$1:</span>`)
}
