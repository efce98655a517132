// Package teams reconciles the two independently sourced spellings of a
// fixture: the locally authored name and the live-feed name. Matching is
// deliberately conservative: failing to link a live fixture is recoverable
// on the next poll, linking the wrong one is not.
package teams

import (
	"strings"
	"unicode"

	"github.com/Dogan7/goalsignal/internal/textfold"
)

// Resolver decides whether a stored fixture and a feed fixture are the same
// match. Pluggable so alias tables and thresholds can be swapped without
// touching the tracker.
type Resolver interface {
	Matches(localHome, localAway, feedHome, feedAway string) bool
}

// noiseTokens are dropped from team names before comparison: club prefixes,
// generic suffixes, and youth-team markers that differ between sources.
var noiseTokens = map[string]struct{}{
	"fc": {}, "afc": {}, "cf": {}, "sc": {}, "ac": {}, "as": {}, "ss": {},
	"ssc": {}, "rc": {}, "cd": {}, "ud": {}, "nk": {}, "fk": {}, "bk": {},
	"club": {}, "de": {}, "the": {}, "united": {}, "utd": {}, "city": {},
	"u19": {}, "u21": {}, "u23": {},
}

// Matcher is the default Resolver: diacritic folding, noise stripping, an
// alias table, then three containment strategies per side.
type Matcher struct {
	aliases map[string]string // normalized name -> canonical normalized name
}

// NewMatcher builds a Matcher. aliases maps alternate spellings to canonical
// ones ("man utd" -> "manchester united"); keys and values are normalized
// internally, nil is fine.
func NewMatcher(aliases map[string]string) *Matcher {
	m := &Matcher{aliases: make(map[string]string, len(aliases))}
	for k, v := range aliases {
		m.aliases[m.normalize(k)] = m.normalize(v)
	}
	return m
}

// Matches reports whether both sides of the fixture pair refer to the same
// teams. Home and away must each match independently.
func (m *Matcher) Matches(localHome, localAway, feedHome, feedAway string) bool {
	return m.sideMatches(localHome, feedHome) && m.sideMatches(localAway, feedAway)
}

func (m *Matcher) sideMatches(local, feed string) bool {
	a := m.canonical(local)
	b := m.canonical(feed)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	// Strategy 1: one normalized name contains the other. The shorter side
	// must be substantial so "ab" never links two unrelated clubs.
	if mutualContains(a, b) {
		return true
	}

	// Strategy 2: leading tokens (usually the club's proper name) contain
	// each other, both long enough to be meaningful.
	fa, fb := firstToken(a), firstToken(b)
	if len(fa) > 3 && len(fb) > 3 && (strings.Contains(fa, fb) || strings.Contains(fb, fa)) {
		return true
	}

	// Strategy 3: whitespace-collapsed forms, for sources that glue or split
	// compound names differently ("RealSociedad" vs "Real Sociedad").
	ca := strings.ReplaceAll(a, " ", "")
	cb := strings.ReplaceAll(b, " ", "")
	return mutualContains(ca, cb)
}

// canonical normalizes a name and applies the alias table.
func (m *Matcher) canonical(name string) string {
	n := m.normalize(name)
	if canon, ok := m.aliases[n]; ok {
		return canon
	}
	return n
}

// normalize lower-cases, folds diacritics, drops punctuation, noise tokens,
// single-letter initials, and trailing numeric codes.
func (m *Matcher) normalize(name string) string {
	s := textfold.Fold(name)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, noise := noiseTokens[f]; noise {
			continue
		}
		if len(f) == 1 && !unicode.IsDigit(rune(f[0])) {
			continue // initials like the "r" in "R. Madrid"
		}
		if isNumeric(f) {
			continue // trailing roster/era codes
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func mutualContains(a, b string) bool {
	short := a
	if len(b) < len(short) {
		short = b
	}
	if len(short) < 4 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func firstToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
