package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// markupTransform rewrites one markup feature. Transforms run in order and
// each sees the output of the previous one. Shielded transforms see anchors
// as opaque placeholders.
type markupTransform struct {
	name     string
	apply    func(string) string
	shielded bool
}

var (
	labeledLinkRe = regexp.MustCompile(`<(https?://[^|>]+)\|([^>]+)>`)
	bareLinkRe    = regexp.MustCompile(`<(https?://[^>]+)>`)
	boldRe        = regexp.MustCompile(`\*(.*?)\*`)
	strikeRe      = regexp.MustCompile(`~(.*?)~`)
	codeRe        = regexp.MustCompile("`(.*?)`")
	listItemRe    = regexp.MustCompile(`^[ \t]*-[ \t]+(.*)$`)

	anchorRe      = regexp.MustCompile(`<a href="[^>]*">[^>]*</a>`)
	placeholderRe = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)
)

// Links run first and the emphasis and code passes never see the anchors
// they produce: URLs routinely carry '_', '*' and '~'.
// Lists must run before line breaks since they match whole lines.
var markupPipeline = []markupTransform{
	{name: "links", apply: convertLinks},
	{name: "bold", apply: func(s string) string { return boldRe.ReplaceAllString(s, "<strong>$1</strong>") }, shielded: true},
	{name: "italic", apply: convertItalic, shielded: true},
	{name: "strike", apply: func(s string) string { return strikeRe.ReplaceAllString(s, "<del>$1</del>") }, shielded: true},
	{name: "code", apply: func(s string) string { return codeRe.ReplaceAllString(s, "<code>$1</code>") }, shielded: true},
	{name: "lists", apply: convertLists},
	{name: "breaks", apply: func(s string) string { return strings.ReplaceAll(s, "\n", "<br>") }},
}

// ConvertMarkup turns chat markup into an HTML fragment. Unmatched
// delimiters are kept as literal text.
func ConvertMarkup(raw string) string {
	text := raw
	var anchors []string
	hidden := false
	for _, step := range markupPipeline {
		switch {
		case step.shielded && !hidden:
			text, anchors = hideAnchors(text)
			hidden = true
		case !step.shielded && hidden:
			text = restoreAnchors(text, anchors)
			hidden = false
		}
		text = step.apply(text)
	}
	if hidden {
		text = restoreAnchors(text, anchors)
	}
	return text
}

// hideAnchors swaps every anchor for a numbered placeholder built from
// private-use runes, which no markup pattern matches.
func hideAnchors(text string) (string, []string) {
	var anchors []string
	hidden := anchorRe.ReplaceAllStringFunc(text, func(anchor string) string {
		anchors = append(anchors, anchor)
		return fmt.Sprintf("\uE000%d\uE001", len(anchors)-1)
	})
	return hidden, anchors
}

func restoreAnchors(text string, anchors []string) string {
	if len(anchors) == 0 {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		idx, err := strconv.Atoi(strings.Trim(token, "\uE000\uE001"))
		if err != nil || idx >= len(anchors) {
			return token
		}
		return anchors[idx]
	})
}

func convertLinks(text string) string {
	text = labeledLinkRe.ReplaceAllString(text, `<a href="$1">$2</a>`)
	return bareLinkRe.ReplaceAllString(text, `<a href="$1">$1</a>`)
}

// convertItalic pairs '_' delimiters that are not glued to a word on their
// outer side. The closing delimiter is the nearest acceptable one on the
// same line.
func convertItalic(text string) string {
	if !strings.Contains(text, "_") {
		return text
	}
	var out strings.Builder
	out.Grow(len(text) + 16)

	pos := 0
	for pos < len(text) {
		open := strings.IndexByte(text[pos:], '_')
		if open == -1 {
			break
		}
		open += pos
		if precededByWord(text, open) {
			out.WriteString(text[pos : open+1])
			pos = open + 1
			continue
		}

		closeAt := -1
		for i := open + 1; i < len(text); i++ {
			if text[i] == '\n' {
				break
			}
			if text[i] == '_' && !followedByWord(text, i) {
				closeAt = i
				break
			}
		}
		if closeAt == -1 {
			out.WriteString(text[pos : open+1])
			pos = open + 1
			continue
		}

		out.WriteString(text[pos:open])
		out.WriteString("<em>")
		out.WriteString(text[open+1 : closeAt])
		out.WriteString("</em>")
		pos = closeAt + 1
	}
	out.WriteString(text[pos:])
	return out.String()
}

func precededByWord(text string, idx int) bool {
	if idx == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return isWordRune(r)
}

func followedByWord(text string, idx int) bool {
	if idx+1 >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[idx+1:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// convertLists turns "- item" lines into list items and folds each run of
// consecutive items into a single list.
func convertLists(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var items strings.Builder
	inList := false
	flush := func() {
		if !inList {
			return
		}
		out = append(out, "<ul>"+items.String()+"</ul>")
		items.Reset()
		inList = false
	}

	for _, line := range lines {
		match := listItemRe.FindStringSubmatch(line)
		if match == nil {
			flush()
			out = append(out, line)
			continue
		}
		inList = true
		items.WriteString("<li>")
		items.WriteString(match[1])
		items.WriteString("</li>")
	}
	flush()

	return strings.Join(out, "\n")
}
