package taxonomy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// dashRun matches a hyphen, en dash or em dash with any surrounding whitespace.
var dashRun = regexp.MustCompile(`\s*[-–—]\s*`)

const (
	canonicalDash = " - "
	displayDash   = " — "
)

// Normalize folds a category label into its matching key: lower-cased,
// diacritics removed, every dash variant rendered as " - " and whitespace
// collapsed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = stripMarks(strings.ToLower(s))
	s = dashRun.ReplaceAllString(s, canonicalDash)
	return strings.Join(strings.Fields(s), " ")
}

// DisplayLabel renders a label in the stored "Group — Leaf" form while
// keeping its original casing and accents.
func DisplayLabel(s string) string {
	s = dashRun.ReplaceAllString(s, displayDash)
	return strings.Join(strings.Fields(s), " ")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
