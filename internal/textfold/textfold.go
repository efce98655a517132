// Package textfold normalizes text for comparison: lowercase, diacritics
// removed, whitespace collapsed. Both the notation parser and the team
// resolver compare through it.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases s and strips combining marks, so "Beşiktaş" and
// "besiktas" compare equal.
func Fold(s string) string {
	s = strings.ToLower(s)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	// Turkish dotless ı survives mark stripping; map it by hand.
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ı':
			return 'i'
		case 'ø':
			return 'o'
		}
		return r
	}, folded)
}

// Collapse folds s and squeezes runs of whitespace into single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}
