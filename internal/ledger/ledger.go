// Package ledger guards at-most-once notification delivery. Every send is
// keyed by a token; a token present in the ledger means the message already
// went out and must never go out again, even across restarts.
package ledger

import (
	"fmt"
	"strings"
)

// Well-known tokens. Score-bearing tokens come from HotToken/WarmToken so the
// same tier at a new score is a fresh event.
const (
	TokenUpcoming   = "upcoming"
	TokenResultWon  = "result_won"
	TokenResultLost = "result_lost"
)

// HotToken keys a hot alert at a specific score.
func HotToken(home, away int) string {
	return fmt.Sprintf("hot_%d-%d", home, away)
}

// WarmToken keys a warm alert at a specific score.
func WarmToken(home, away int) string {
	return fmt.Sprintf("warm_%d-%d", home, away)
}

// Ledger wraps the comma-joined token list persisted on a prediction row.
// Cheap value type: parse, mutate, serialize back.
type Ledger struct {
	tokens []string
}

// Parse loads a persisted ledger string. Empty input is an empty ledger.
func Parse(s string) *Ledger {
	l := &Ledger{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			l.tokens = append(l.tokens, tok)
		}
	}
	return l
}

// Has reports whether token was already recorded.
func (l *Ledger) Has(token string) bool {
	for _, t := range l.tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Add records token. Idempotent: re-adding changes nothing.
func (l *Ledger) Add(token string) {
	if token == "" || l.Has(token) {
		return
	}
	l.tokens = append(l.tokens, token)
}

// ShouldNotify is Has negated, named for call-site readability.
func (l *Ledger) ShouldNotify(token string) bool {
	return !l.Has(token)
}

// String serializes the ledger for persistence. Order of first recording is
// preserved so the stored column doubles as a send history.
func (l *Ledger) String() string {
	return strings.Join(l.tokens, ",")
}
