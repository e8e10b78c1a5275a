// Package slug generates URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes unicode (NFKD), strips combining marks, then drops
// anything still outside ASCII. "Zürich" -> "Zurich", "Łódź" -> "odz".
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

var (
	nonWord  = regexp.MustCompile(`[^\w\s-]`)
	collapse = regexp.MustCompile(`[-\s]+`)
)

// Make converts text to a slug: unicode-fold to ASCII, lowercase, strip
// non-word characters, collapse whitespace and hyphen runs to single
// hyphens, trim leading/trailing hyphens.
//
// Make is idempotent: Make(Make(x)) == Make(x).
func Make(text string) string {
	if text == "" {
		return ""
	}
	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonWord.ReplaceAllString(s, "")
	s = collapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
