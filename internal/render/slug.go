package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug turns a display name into its file-name form: lower case, accents
// folded to ASCII, spaces to underscores ("San Luis Potosí" becomes
// "san_luis_potosi").
func Slug(name string) string {
	folded, _, err := transform.String(deaccent, name)
	if err != nil {
		folded = name
	}
	return strings.ReplaceAll(strings.ToLower(folded), " ", "_")
}
