// Package alert grades how close a live match is to satisfying a standing
// prediction. Pure: safe to call on every poll tick.
package alert

import (
	"fmt"
	"math"

	"github.com/Dogan7/goalsignal/internal/notation"
	"github.com/Dogan7/goalsignal/internal/outcome"
)

// Level is the alert tier.
type Level string

const (
	LevelHot  Level = "hot"
	LevelWarm Level = "warm"
	LevelCold Level = "cold"
)

const firstHalfMinutes = 45

// State is the computed proximity snapshot for one prediction at one score.
// Recomputed on every poll, never persisted directly.
type State struct {
	Kind        notation.Kind
	GoalsNeeded int
	HomeScore   int
	AwayScore   int
	Target      string
	FirstHalf   bool
	Elapsed     int
	Level       Level
	Message     string
	AlreadyHit  bool
}

// Assess grades raw notation against the live score. A prediction already
// satisfied by the current score reports AlreadyHit and is informational,
// never hot. First-half notations stop alerting once the first half is over.
func Assess(raw string, home, away, elapsed int, htHome, htAway *int) State {
	p := notation.Parse(raw)
	st := State{
		Kind:      p.Kind,
		HomeScore: home,
		AwayScore: away,
		Target:    p.Target(),
		FirstHalf: p.FirstHalf,
		Elapsed:   elapsed,
		Level:     LevelCold,
	}

	if p.Kind == notation.KindUnknown {
		st.Message = "unrecognized prediction"
		return st
	}

	// During the first half the running score is the half-time score so far,
	// which lets first-half predictions be graded before the break.
	hh, ha := htHome, htAway
	if p.FirstHalf && hh == nil && elapsed > 0 && elapsed <= firstHalfMinutes {
		hh, ha = &home, &away
	}

	v := outcome.Evaluate(p, home, away, hh, ha)
	if v == outcome.Won {
		st.AlreadyHit = true
		st.Message = fmt.Sprintf("%s already hit at %d-%d", st.Target, home, away)
		return st
	}

	if p.FirstHalf && elapsed > firstHalfMinutes {
		st.Message = "first half over, no longer reachable"
		return st
	}

	switch p.Kind {
	case notation.KindTotal:
		// An under graded as lost at the current score cannot recover:
		// goals only accumulate.
		if !p.Over {
			if v == outcome.Lost {
				st.Message = fmt.Sprintf("under %g line passed at %d-%d, no longer winnable", p.Line, home, away)
			} else {
				st.Message = fmt.Sprintf("under %g line still open at %d-%d", p.Line, home, away)
			}
			return st
		}
		st.GoalsNeeded = goalsToClear(home+away, p.Line)
		switch st.GoalsNeeded {
		case 1:
			st.Level = LevelHot
		case 2:
			st.Level = LevelWarm
		}
		st.Message = distanceMessage(st.GoalsNeeded, fmt.Sprintf("OVER %g", p.Line))

	case notation.KindSideTotal:
		if !p.Over {
			if v == outcome.Lost {
				st.Message = fmt.Sprintf("%s passed at %d-%d, no longer winnable", st.Target, home, away)
			} else {
				st.Message = fmt.Sprintf("%s still open at %d-%d", st.Target, home, away)
			}
			return st
		}
		goals := home
		side := "HOME"
		if p.Side == notation.SideAway {
			goals = away
			side = "AWAY"
		}
		st.GoalsNeeded = goalsToClear(goals, p.Line)
		// One specific side must score, so a single goal is only warm.
		if st.GoalsNeeded == 1 {
			st.Level = LevelWarm
		}
		st.Message = distanceMessage(st.GoalsNeeded, fmt.Sprintf("%s OVER %g", side, p.Line))

	case notation.KindBTTS:
		if !p.Yes {
			if v == outcome.Lost {
				st.Message = fmt.Sprintf("both teams scored at %d-%d, no-BTTS no longer winnable", home, away)
			} else {
				st.Message = fmt.Sprintf("no-BTTS still open at %d-%d", home, away)
			}
			return st
		}
		st.GoalsNeeded = scorelessSides(home, away)
		if st.GoalsNeeded == 1 {
			st.Level = LevelWarm
		}
		st.Message = fmt.Sprintf("%d side(s) still to score for BTTS", st.GoalsNeeded)

	case notation.KindResult:
		// Binary: no goal distance, hit or not-hit.
		st.Message = fmt.Sprintf("%s not hit at %d-%d", st.Target, home, away)
	}

	return st
}

// goalsToClear is how many more goals push the tally strictly over the line.
func goalsToClear(goals int, line float64) int {
	needed := int(math.Floor(line)) + 1 - goals
	if needed < 0 {
		return 0
	}
	return needed
}

func scorelessSides(home, away int) int {
	n := 0
	if home == 0 {
		n++
	}
	if away == 0 {
		n++
	}
	return n
}

func distanceMessage(needed int, target string) string {
	if needed == 1 {
		return "1 goal away from " + target
	}
	return fmt.Sprintf("%d goals away from %s", needed, target)
}
