// Package notation parses the compact prediction grammar used on prediction
// records. A notation names a wagering outcome: full-time result, both teams
// to score, a total-goals line, or a single side's total, each with an
// optional first-half variant.
//
// Examples: "1", "X", "BTTS-yes", "over 2.5", "home over 1.5",
// "HT over 0.5", "HT away under 0.5".
package notation

import (
	"strconv"
	"strings"

	"github.com/Dogan7/goalsignal/internal/textfold"
)

// Kind is the notation family.
type Kind int

const (
	KindUnknown Kind = iota
	KindResult
	KindBTTS
	KindTotal
	KindSideTotal
)

// ResultPick is the 1X2 outcome of a result notation.
type ResultPick int

const (
	HomeWin ResultPick = iota
	Draw
	AwayWin
)

// Side selects whose goals a side-total notation counts.
type Side int

const (
	SideHome Side = iota
	SideAway
)

// Prediction is a parsed notation. Zero value is KindUnknown.
type Prediction struct {
	Raw       string
	Kind      Kind
	FirstHalf bool

	Result ResultPick // KindResult
	Yes    bool       // KindBTTS: both teams score expected
	Side   Side       // KindSideTotal
	Over   bool       // totals: over (true) or under
	Line   float64    // totals threshold, e.g. 2.5
}

// Parse interprets raw notation text. It never fails: anything it cannot
// interpret comes back as KindUnknown, which evaluates to indeterminate.
func Parse(raw string) Prediction {
	p := Prediction{Raw: raw, Kind: KindUnknown}

	s := textfold.Collapse(raw)
	if s == "" {
		return p
	}

	if strings.HasPrefix(s, "ht ") {
		p.FirstHalf = true
		s = strings.TrimPrefix(s, "ht ")
	} else if s == "ht" {
		return p
	}

	switch s {
	case "1":
		p.Kind, p.Result = KindResult, HomeWin
		return p
	case "x":
		p.Kind, p.Result = KindResult, Draw
		return p
	case "2":
		p.Kind, p.Result = KindResult, AwayWin
		return p
	case "btts-yes":
		p.Kind, p.Yes = KindBTTS, true
		return p
	case "btts-no":
		p.Kind = KindBTTS
		return p
	}

	tokens := strings.Fields(s)
	kind, side := KindTotal, SideHome
	switch tokens[0] {
	case "home":
		kind = KindSideTotal
		tokens = tokens[1:]
	case "away":
		kind, side = KindSideTotal, SideAway
		tokens = tokens[1:]
	}

	if len(tokens) != 2 {
		return p
	}
	var over bool
	switch tokens[0] {
	case "over":
		over = true
	case "under":
	default:
		return p
	}

	line, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil || line < 0 {
		return p
	}
	p.Kind = kind
	p.Side = side
	p.Over = over
	p.Line = line
	return p
}

// Target is a short human-readable restatement of the threshold, used in
// alert messages ("over 2.5 goals", "first-half home over 0.5").
func (p Prediction) Target() string {
	var b strings.Builder
	if p.FirstHalf {
		b.WriteString("first-half ")
	}
	switch p.Kind {
	case KindResult:
		switch p.Result {
		case HomeWin:
			b.WriteString("home win")
		case Draw:
			b.WriteString("draw")
		case AwayWin:
			b.WriteString("away win")
		}
	case KindBTTS:
		if p.Yes {
			b.WriteString("both teams to score")
		} else {
			b.WriteString("not both teams to score")
		}
	case KindTotal, KindSideTotal:
		if p.Kind == KindSideTotal {
			if p.Side == SideHome {
				b.WriteString("home ")
			} else {
				b.WriteString("away ")
			}
		}
		if p.Over {
			b.WriteString("over ")
		} else {
			b.WriteString("under ")
		}
		b.WriteString(strconv.FormatFloat(p.Line, 'f', -1, 64))
		b.WriteString(" goals")
	default:
		return p.Raw
	}
	return b.String()
}
