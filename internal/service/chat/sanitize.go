package chat

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Chat text is plain: every tag is dropped, script and style bodies included.
var strictPolicy = bluemonday.StrictPolicy()

// plainText strips markup from user text and decodes the entities the
// policy escapes, so "l'épée & co" is stored as typed.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
