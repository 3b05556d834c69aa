// Package names maps object names, English and localized, to canonical
// indices and serves prefix completion over them.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the lookup key for a name: NFKC, case folded, runs of
// whitespace collapsed to one space, trimmed. "  alpha   CENTAURI" and
// "Alpha Centauri" share a key.
func Normalize(name string) string {
	// cases.Caser is stateful, so one per call.
	folded := cases.Fold().String(norm.NFKC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}

// normalizePrefix is Normalize for completion input. A trailing space is kept
// so "Alpha " does not also complete to "Alphard".
func normalizePrefix(prefix string) string {
	key := Normalize(prefix)
	if key != "" && strings.TrimRightFunc(prefix, unicode.IsSpace) != prefix {
		key += " "
	}
	return key
}
