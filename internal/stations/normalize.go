// Package stations resolves free-form station names to reference records.
package stations

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AliasSeparator splits a station name from its alternate name ("Zócalo / Tenochtitlan").
const AliasSeparator = "/"

var (
	parenthetical = regexp.MustCompile(`\([^)]*(\)|$)`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// Normalize reduces a station name to its comparable key:
// lowercase, locality suffix and alias removed, parentheticals removed,
// whitespace collapsed, accents folded, punctuation dropped.
func Normalize(name string) string {
	s := strings.ToLower(name)

	// "Name, City, Region, Country" -> "Name"
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, AliasSeparator); i >= 0 {
		s = s[:i]
	}

	s = parenthetical.ReplaceAllString(s, " ")
	s = collapse(s)
	s = foldAccents(s)
	s = nonAlnum.ReplaceAllString(s, "")

	return collapse(s)
}

// AddressKey folds case, accents and whitespace but keeps locality and
// punctuation, so "Zócalo,  CDMX" and "zocalo, cdmx" compare equal while
// "Zócalo, Puebla" does not.
func AddressKey(s string) string {
	return collapse(foldAccents(strings.ToLower(s)))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldAccents maps accented Latin letters to their base letter (á -> a, ñ -> n).
// A transformer holds state, so one is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
