// Package database persists prediction records and engine runs in PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dogan7/goalsignal/models"
)

// DB represents a database connection.
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist.
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id BIGSERIAL PRIMARY KEY,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			league TEXT NOT NULL DEFAULT '',
			match_date TEXT NOT NULL,
			kickoff TEXT NOT NULL DEFAULT '',
			prediction TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			alts JSONB NOT NULL DEFAULT '[]',
			rule_ids JSONB NOT NULL DEFAULT '[]',
			run_id TEXT NOT NULL DEFAULT '',
			home_score INTEGER,
			away_score INTEGER,
			halftime_home INTEGER,
			halftime_away INTEGER,
			elapsed INTEGER,
			is_live BOOLEAN NOT NULL DEFAULT FALSE,
			is_finished BOOLEAN NOT NULL DEFAULT FALSE,
			live_status TEXT NOT NULL DEFAULT '',
			verdict TEXT NOT NULL DEFAULT '',
			result_note TEXT NOT NULL DEFAULT '',
			notifications TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (home_team, away_team, match_date)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP,
			matches_processed INTEGER NOT NULL DEFAULT 0,
			predictions_found INTEGER NOT NULL DEFAULT 0,
			execution_ms BIGINT NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

// InsertPrediction stores a new prediction. First writer wins: a second
// insert for the same fixture and date is a silent no-op and returns false.
func (db *DB) InsertPrediction(ctx context.Context, rec *models.PredictionRecord) (bool, error) {
	alts, err := json.Marshal(rec.Alts)
	if err != nil {
		return false, fmt.Errorf("encoding alternatives: %w", err)
	}
	ruleIDs, err := json.Marshal(rec.RuleIDs)
	if err != nil {
		return false, fmt.Errorf("encoding rule ids: %w", err)
	}

	var id int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO predictions (
			home_team, away_team, league, match_date, kickoff,
			prediction, confidence, alts, rule_ids, run_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (home_team, away_team, match_date) DO NOTHING
		RETURNING id
	`,
		rec.HomeTeam, rec.AwayTeam, rec.League, rec.MatchDate, rec.Kickoff,
		rec.Prediction, rec.Confidence, alts, ruleIDs, rec.RunID,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil // duplicate, kept the existing row
	}
	if err != nil {
		return false, err
	}

	rec.ID = id
	return true, nil
}

// ActiveByDate returns every unfinished prediction for a match date.
func (db *DB) ActiveByDate(ctx context.Context, date string) ([]models.PredictionRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
			id, home_team, away_team, league, match_date, kickoff,
			prediction, confidence, alts, rule_ids, run_id,
			home_score, away_score, halftime_home, halftime_away, elapsed,
			is_live, is_finished, live_status, verdict, result_note,
			notifications, created_at, updated_at
		FROM predictions
		WHERE match_date = $1 AND is_finished = FALSE
		ORDER BY id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanPrediction(rows *sql.Rows) (models.PredictionRecord, error) {
	var rec models.PredictionRecord
	var alts, ruleIDs []byte
	var homeScore, awayScore, htHome, htAway, elapsed sql.NullInt64

	err := rows.Scan(
		&rec.ID, &rec.HomeTeam, &rec.AwayTeam, &rec.League, &rec.MatchDate, &rec.Kickoff,
		&rec.Prediction, &rec.Confidence, &alts, &ruleIDs, &rec.RunID,
		&homeScore, &awayScore, &htHome, &htAway, &elapsed,
		&rec.IsLive, &rec.IsFinished, &rec.LiveStatus, &rec.Verdict, &rec.ResultNote,
		&rec.Notifications, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}

	if err := json.Unmarshal(alts, &rec.Alts); err != nil {
		return rec, fmt.Errorf("decoding alternatives for prediction %d: %w", rec.ID, err)
	}
	if err := json.Unmarshal(ruleIDs, &rec.RuleIDs); err != nil {
		return rec, fmt.Errorf("decoding rule ids for prediction %d: %w", rec.ID, err)
	}

	rec.HomeScore = nullableInt(homeScore)
	rec.AwayScore = nullableInt(awayScore)
	rec.HalftimeHome = nullableInt(htHome)
	rec.HalftimeAway = nullableInt(htAway)
	rec.Elapsed = nullableInt(elapsed)
	return rec, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// UpdateLive writes back the tracker-owned fields of a prediction.
func (db *DB) UpdateLive(ctx context.Context, rec *models.PredictionRecord) error {
	alts, err := json.Marshal(rec.Alts)
	if err != nil {
		return fmt.Errorf("encoding alternatives: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		UPDATE predictions
		SET home_score = $1, away_score = $2,
			halftime_home = $3, halftime_away = $4, elapsed = $5,
			is_live = $6, is_finished = $7, live_status = $8,
			verdict = $9, result_note = $10, notifications = $11,
			alts = $12, updated_at = NOW()
		WHERE id = $13
	`,
		intOrNull(rec.HomeScore), intOrNull(rec.AwayScore),
		intOrNull(rec.HalftimeHome), intOrNull(rec.HalftimeAway), intOrNull(rec.Elapsed),
		rec.IsLive, rec.IsFinished, rec.LiveStatus,
		rec.Verdict, rec.ResultNote, rec.Notifications,
		alts, rec.ID,
	)
	return err
}

func intOrNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// CreateRun opens a new engine run and returns its id.
func (db *DB) CreateRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, status, started_at)
		VALUES ($1, 'running', NOW())
	`, id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// CompleteRun closes a run with its final tallies. A non-empty errMsg marks
// the run failed.
func (db *DB) CompleteRun(ctx context.Context, id string, processed, found int, elapsed time.Duration, errMsg string) error {
	status := "completed"
	if errMsg != "" {
		status = "failed"
	}
	_, err := db.ExecContext(ctx, `
		UPDATE runs
		SET status = $1, completed_at = NOW(),
			matches_processed = $2, predictions_found = $3,
			execution_ms = $4, error_message = $5
		WHERE id = $6
	`, status, processed, found, elapsed.Milliseconds(), errMsg, id)
	return err
}

// ResultTally is the aggregate win/loss picture over settled predictions.
type ResultTally struct {
	Won     int
	Lost    int
	Pending int
}

// Tally aggregates verdicts for a match date, or for all dates when date is
// empty.
func (db *DB) Tally(ctx context.Context, date string) (ResultTally, error) {
	var t ResultTally
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE verdict = 'won'),
			COUNT(*) FILTER (WHERE verdict = 'lost'),
			COUNT(*) FILTER (WHERE verdict NOT IN ('won', 'lost'))
		FROM predictions
		WHERE ($1 = '' OR match_date = $1)
	`, date).Scan(&t.Won, &t.Lost, &t.Pending)
	return t, err
}
