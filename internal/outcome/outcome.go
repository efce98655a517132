// Package outcome settles a prediction against a completed match score.
package outcome

import (
	"github.com/Dogan7/goalsignal/internal/notation"
)

// Verdict is the settlement result. Indeterminate is a value, not an error:
// unparseable notation or missing half-time data both land here.
type Verdict int

const (
	Indeterminate Verdict = iota
	Won
	Lost
)

func (v Verdict) String() string {
	switch v {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "indeterminate"
	}
}

// Evaluate settles a parsed prediction against the full-time score and, when
// available, the half-time score. First-half notations with nil half-time
// scores are Indeterminate: a half-time result is never inferred from the
// full-time one.
func Evaluate(p notation.Prediction, ftHome, ftAway int, htHome, htAway *int) Verdict {
	if p.Kind == notation.KindUnknown {
		return Indeterminate
	}

	home, away := ftHome, ftAway
	if p.FirstHalf {
		if htHome == nil || htAway == nil {
			return Indeterminate
		}
		home, away = *htHome, *htAway
	}

	switch p.Kind {
	case notation.KindResult:
		return verdict(resultHit(p.Result, home, away))
	case notation.KindBTTS:
		both := home > 0 && away > 0
		return verdict(both == p.Yes)
	case notation.KindTotal:
		return verdict(lineHit(home+away, p.Line, p.Over))
	case notation.KindSideTotal:
		goals := home
		if p.Side == notation.SideAway {
			goals = away
		}
		return verdict(lineHit(goals, p.Line, p.Over))
	}
	return Indeterminate
}

// EvaluateNotation parses and settles raw notation text in one step.
func EvaluateNotation(raw string, ftHome, ftAway int, htHome, htAway *int) Verdict {
	return Evaluate(notation.Parse(raw), ftHome, ftAway, htHome, htAway)
}

func resultHit(pick notation.ResultPick, home, away int) bool {
	switch pick {
	case notation.HomeWin:
		return home > away
	case notation.AwayWin:
		return away > home
	default:
		return home == away
	}
}

func lineHit(goals int, line float64, over bool) bool {
	if over {
		return float64(goals) > line
	}
	return float64(goals) < line
}

func verdict(hit bool) Verdict {
	if hit {
		return Won
	}
	return Lost
}
