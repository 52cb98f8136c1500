package membership

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var namePolicy = bluemonday.StrictPolicy()

// cleanName strips markup from recipient and group names and trims them.
// Names end up in page titles and list rows; message bodies are not touched.
func cleanName(s string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(s)))
}
