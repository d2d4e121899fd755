package application

import "strings"

var contentEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeContent neutralises markup in free text before it is stored.
// Quotes are left alone; the result is only ever placed in element bodies.
func EscapeContent(content string) string {
	return contentEscaper.Replace(content)
}
