package models

import "context"

// FixtureStore persists prediction records. Implemented by internal/database.
type FixtureStore interface {
	InsertPrediction(ctx context.Context, rec *PredictionRecord) (bool, error)
	ActiveByDate(ctx context.Context, date string) ([]PredictionRecord, error)
	UpdateLive(ctx context.Context, rec *PredictionRecord) error
}

// LiveFeed returns the current fixture snapshot for a date. Implementations
// are expected to throttle and cache upstream calls themselves.
type LiveFeed interface {
	Fetch(ctx context.Context, date string) ([]FeedFixture, error)
}

// Notifier delivers a single outgoing message. silent suppresses the client
// side alert sound (losing results, pre-match notices).
type Notifier interface {
	Send(ctx context.Context, text string, silent bool) error
}
