package models

import (
	"time"
)

// MatchState is the lifecycle state of a tracked fixture.
// Transitions are monotonic: not_started -> live -> finished.
type MatchState string

const (
	StateNotStarted MatchState = "not_started"
	StateLive       MatchState = "live"
	StateFinished   MatchState = "finished"
	// StateOther covers abnormal feed statuses (suspended, postponed,
	// cancelled, ...). Not terminal: the fixture keeps its stored state.
	StateOther MatchState = "other"
)

// Verdict values stored on a finished prediction.
const (
	VerdictWon     = "won"
	VerdictLost    = "lost"
	VerdictUnknown = "unknown"
)

// Importance tiers for golden rules.
const (
	ImportanceNormal    = "normal"
	ImportanceImportant = "important"
	ImportanceSpecial   = "special"
)

// OddsVector is the small fixed odds extract for one fixture, keyed by
// market ("4-5", "over 2.5", "BTTS", ...). Absent markets are simply missing.
type OddsVector map[string]float64

// Rule is a single golden rule: odds conditions plus the notations it yields.
// Authored externally, read-only during a matching pass.
type Rule struct {
	ID             int                `yaml:"id"`
	Name           string             `yaml:"name"`
	PrimaryOdds    map[string]float64 `yaml:"primary_odds"`
	SecondaryOdds  map[string]float64 `yaml:"secondary_odds,omitempty"`
	ExcludeOdds    map[string]float64 `yaml:"exclude_odds,omitempty"`
	Predictions    []string           `yaml:"predictions"`
	BaseConfidence int                `yaml:"confidence_base"`
	Importance     string             `yaml:"importance,omitempty"`
	Active         bool               `yaml:"active"`
}

// AltPrediction is a non-primary prediction attached to a fixture record.
type AltPrediction struct {
	Notation   string `json:"notation"`
	Confidence int    `json:"confidence"`
	RuleID     int    `json:"rule_id"`
	Verdict    string `json:"verdict,omitempty"`
}

// PredictionRecord is one fixture-side prediction row. Created by the rule
// engine, mutated by the live tracker, never deleted by the core.
type PredictionRecord struct {
	ID         int64
	HomeTeam   string
	AwayTeam   string
	League     string
	MatchDate  string // YYYY-MM-DD
	Kickoff    string // HH:MM, may be empty
	Prediction string
	Confidence int
	Alts       []AltPrediction
	RuleIDs    []int
	RunID      string

	HomeScore    *int
	AwayScore    *int
	HalftimeHome *int
	HalftimeAway *int
	Elapsed      *int
	IsLive       bool
	IsFinished   bool
	LiveStatus   string

	Verdict       string // "", won, lost, unknown
	ResultNote    string // e.g. "FT 2-1 | HT 1-0"
	Notifications string // comma-joined ledger tokens

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeedFixture is one fixture as reported by the live feed.
type FeedFixture struct {
	FixtureID    int
	HomeTeam     string
	AwayTeam     string
	StatusShort  string // raw feed code: NS, 1H, HT, FT, ...
	Elapsed      *int
	HomeGoals    *int
	AwayGoals    *int
	HalftimeHome *int
	HalftimeAway *int
}

// FixtureOdds is one odds-provider row: a fixture plus its odds extract.
type FixtureOdds struct {
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	League    string     `json:"league"`
	MatchDate string     `json:"match_date"`
	Kickoff   string     `json:"kickoff,omitempty"`
	Odds      OddsVector `json:"odds"`
}

// Run records one matching pass of the rule engine.
type Run struct {
	ID               string
	Status           string // running, completed, failed
	StartedAt        time.Time
	CompletedAt      *time.Time
	MatchesProcessed int
	PredictionsFound int
	ExecutionMS      int64
	ErrorMessage     string
}
