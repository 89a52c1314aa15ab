package ooxml

import "strings"

// mojibake repairs for UTF-8 text that was decoded as Latin-1 somewhere
// upstream. Longer sequences first so the bare "â€" case doesn't pre-empt
// the curly-quote sequences.
var mojibake = strings.NewReplacer(
	"Â£", "£",
	"â€™", "'",
	"â€œ", `"`,
	"â€", `"`,
)

// Escape makes a string safe for insertion into a <w:t> text node. Known
// mis-decoded byte sequences are repaired before the markup metacharacters
// are escaped.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	text = mojibake.Replace(text)
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	return text
}
