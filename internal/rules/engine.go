// Package rules matches a fixture's odds extract against the active golden
// rule set and produces ranked predictions with confidence scores.
package rules

import (
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dogan7/goalsignal/models"
)

// ErrMissingPrimaryOdds marks a fixture whose odds extract lacks the primary
// market entirely. Hard precondition: the fixture is skipped before any rule
// is evaluated.
var ErrMissingPrimaryOdds = errors.New("primary market odds missing")

// Candidate is one scored notation from a matching pass.
type Candidate struct {
	Notation   string
	Confidence int
	RuleID     int
	RuleName   string
}

// Result is the ranked outcome of one fixture's matching pass.
type Result struct {
	Primary      Candidate
	Alternatives []Candidate // sorted by confidence, descending
	RuleIDs      []int       // every rule that matched, ascending
}

// Options tune the matching pass. Zero values fall back to defaults.
type Options struct {
	Tolerance     float64 // accepted |price - ideal| band, default 0.03
	MinConfidence int     // primary below this is discarded, default 85
	PrimaryMarket string  // market key that must be priced, default "4-5"
	MinPrice      float64 // provider noise floor, default 1.01
	MaxPrice      float64 // provider noise ceiling, default 50
}

const maxConfidence = 99

func (o *Options) applyDefaults() {
	if o.Tolerance <= 0 {
		o.Tolerance = 0.03
	}
	if o.MinConfidence == 0 {
		o.MinConfidence = 85
	}
	if o.PrimaryMarket == "" {
		o.PrimaryMarket = "4-5"
	}
	if o.MinPrice == 0 {
		o.MinPrice = 1.01
	}
	if o.MaxPrice == 0 {
		o.MaxPrice = 50
	}
}

// Engine runs matching passes. Stateless between calls: all accumulation is
// scoped to a single Match invocation.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

func NewEngine(opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{
		opts: opts,
		log:  log.With().Str("component", "rules_engine").Logger(),
	}
}

// Match evaluates every active rule against the odds extract. Returns
// (nil, nil) when no rule matches or the best candidate falls below the
// confidence floor: an abstention, not a guess. Returns ErrMissingPrimaryOdds
// when the primary market is unpriced.
func (e *Engine) Match(odds models.OddsVector, active []models.Rule) (*Result, error) {
	clean := e.sanitize(odds)
	if _, ok := clean[e.opts.PrimaryMarket]; !ok {
		return nil, ErrMissingPrimaryOdds
	}

	// Best candidate per notation. When several rules yield the same
	// notation the highest confidence wins; confidences never add up.
	best := make(map[string]Candidate)
	var ruleIDs []int

	for _, rule := range active {
		if !rule.Active {
			continue
		}
		if !e.conditionHolds(clean, rule.PrimaryOdds, false) {
			continue
		}
		if len(rule.SecondaryOdds) > 0 && !e.conditionHolds(clean, rule.SecondaryOdds, false) {
			continue
		}
		if len(rule.ExcludeOdds) > 0 && !e.conditionHolds(clean, rule.ExcludeOdds, true) {
			continue
		}

		ruleIDs = append(ruleIDs, rule.ID)
		for i, not := range rule.Predictions {
			c := Candidate{
				Notation:   not,
				Confidence: e.confidence(clean, rule, i == 0),
				RuleID:     rule.ID,
				RuleName:   rule.Name,
			}
			if prev, ok := best[not]; !ok || c.Confidence > prev.Confidence {
				best[not] = c
			}
		}
	}

	if len(best) == 0 {
		return nil, nil
	}

	ranked := make([]Candidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Notation < ranked[j].Notation
	})

	if ranked[0].Confidence < e.opts.MinConfidence {
		e.log.Debug().
			Str("notation", ranked[0].Notation).
			Int("confidence", ranked[0].Confidence).
			Msg("best candidate below confidence floor, abstaining")
		return nil, nil
	}

	sort.Ints(ruleIDs)
	return &Result{
		Primary:      ranked[0],
		Alternatives: ranked[1:],
		RuleIDs:      ruleIDs,
	}, nil
}

// sanitize drops prices outside the trusted band; provider glitches are
// excluded rather than matched against.
func (e *Engine) sanitize(odds models.OddsVector) models.OddsVector {
	clean := make(models.OddsVector, len(odds))
	for k, v := range odds {
		if v < e.opts.MinPrice || v > e.opts.MaxPrice {
			e.log.Debug().Str("market", k).Float64("price", v).Msg("dropping implausible price")
			continue
		}
		clean[k] = v
	}
	return clean
}

// conditionHolds checks one odds condition set. For exclude conditions the
// logic inverts: a price inside the band disqualifies the rule, and a missing
// market cannot disqualify anything.
func (e *Engine) conditionHolds(odds models.OddsVector, cond map[string]float64, exclude bool) bool {
	for market, ideal := range cond {
		price, ok := odds[market]
		if !ok {
			if exclude {
				continue
			}
			return false
		}
		within := math.Abs(price-ideal) <= e.opts.Tolerance
		if exclude {
			if within {
				return false
			}
		} else if !within {
			return false
		}
	}
	return true
}

// confidence scores one notation for one matched rule:
// base + importance boost + odds-quality boost + small shape bonuses,
// capped at 99 so no prediction ever claims certainty.
func (e *Engine) confidence(odds models.OddsVector, rule models.Rule, first bool) int {
	score := rule.BaseConfidence

	switch rule.Importance {
	case models.ImportanceImportant:
		score += 2
	case models.ImportanceSpecial:
		score += 3
	}

	score += e.qualityBoost(odds, rule.PrimaryOdds)

	// Rules yielding few notations are more specific.
	switch n := len(rule.Predictions); {
	case n <= 2:
		score += 2
	case n <= 4:
		score += 1
	}
	if first {
		score++
	}

	if score > maxConfidence {
		return maxConfidence
	}
	return score
}

// qualityBoost rewards prices close to the rule's ideal: the tolerance band
// is split in thirds, closest third +2, middle +1, outer 0.
func (e *Engine) qualityBoost(odds models.OddsVector, primary map[string]float64) int {
	worst := 2
	for market, ideal := range primary {
		price, ok := odds[market]
		if !ok {
			return 0
		}
		diff := math.Abs(price - ideal)
		var b int
		switch {
		case diff <= e.opts.Tolerance/3:
			b = 2
		case diff <= 2*e.opts.Tolerance/3:
			b = 1
		}
		if b < worst {
			worst = b
		}
	}
	return worst
}
