package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"
)

const dateLayout = "2006-01-02 15:04"

var templateFuncs = template.FuncMap{
	"safeURL":    SafeURL,
	"safeHTML":   func(s string) template.HTML { return template.HTML(s) },
	"formatDate": func(t time.Time) string { return t.Local().Format(dateLayout) },
	"isoDate":    func(t time.Time) string { return t.Format(time.RFC3339) },
	"bytes":      func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
	"comma":      func(n int) string { return humanize.Comma(int64(n)) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// SafeURL normalizes a relative path to NFC and percent-encodes every byte
// except unreserved characters and '/'.
func SafeURL(path string) template.URL {
	normalized := norm.NFC.String(path)

	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return template.URL(b.String())
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
