// Package tracker runs the live polling cycle: match stored predictions to
// feed fixtures, fold score movement into the records, settle finished
// matches, and fire at-most-once notifications.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dogan7/goalsignal/internal/alert"
	"github.com/Dogan7/goalsignal/internal/ledger"
	"github.com/Dogan7/goalsignal/internal/livefeed"
	"github.com/Dogan7/goalsignal/internal/metrics"
	"github.com/Dogan7/goalsignal/internal/notify"
	"github.com/Dogan7/goalsignal/internal/outcome"
	"github.com/Dogan7/goalsignal/internal/teams"
	"github.com/Dogan7/goalsignal/models"
)

// Tracker drives one polling loop over a day's predictions.
type Tracker struct {
	store        models.FixtureStore
	feed         models.LiveFeed
	resolver     teams.Resolver
	notifier     models.Notifier
	metrics      *metrics.Metrics
	writeTimeout time.Duration
	logger       zerolog.Logger
}

// Options wires a Tracker. Metrics may be nil; writes then go unmeasured.
type Options struct {
	Store        models.FixtureStore
	Feed         models.LiveFeed
	Resolver     teams.Resolver
	Notifier     models.Notifier
	Metrics      *metrics.Metrics
	WriteTimeout time.Duration
}

// New builds a Tracker.
func New(opts Options) *Tracker {
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 20 * time.Second
	}
	return &Tracker{
		store:        opts.Store,
		feed:         opts.Feed,
		resolver:     opts.Resolver,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		writeTimeout: opts.WriteTimeout,
		logger:       log.With().Str("component", "tracker").Logger(),
	}
}

// CycleStats summarizes one polling cycle.
type CycleStats struct {
	Checked   int
	Matched   int
	Unmatched int
	Updated   int
	Finished  int
	Notified  int
}

// RunCycle executes one polling pass for date (YYYY-MM-DD). A day with no
// active predictions costs nothing: the feed is not even fetched.
func (t *Tracker) RunCycle(ctx context.Context, date string) (CycleStats, error) {
	start := time.Now()
	var stats CycleStats

	records, err := t.store.ActiveByDate(ctx, date)
	if err != nil {
		return stats, fmt.Errorf("loading active predictions: %w", err)
	}
	if len(records) == 0 {
		t.logger.Debug().Str("date", date).Msg("No active predictions, skipping feed fetch")
		return stats, nil
	}

	fixtures, err := t.feed.Fetch(ctx, date)
	if err != nil {
		return stats, fmt.Errorf("fetching live feed: %w", err)
	}
	if t.metrics != nil {
		t.metrics.FeedFetches.Inc()
	}

	var dirty []*models.PredictionRecord
	for i := range records {
		rec := &records[i]
		stats.Checked++

		fixture := t.findFixture(rec, fixtures)
		if fixture == nil {
			stats.Unmatched++
			if t.metrics != nil {
				t.metrics.UnmatchedRecords.Inc()
			}
			t.logger.Debug().
				Str("home", rec.HomeTeam).
				Str("away", rec.AwayTeam).
				Msg("No live fixture matched")
			continue
		}
		stats.Matched++

		changed, finished := t.apply(rec, fixture)
		notified := t.notifyRecord(ctx, rec)
		stats.Notified += notified

		if finished {
			stats.Finished++
		}
		if changed || notified > 0 {
			dirty = append(dirty, rec)
		}
	}

	stats.Updated = t.writeBack(ctx, dirty)

	if t.metrics != nil {
		t.metrics.Cycles.Inc()
		t.metrics.CycleDuration.Observe(time.Since(start).Seconds())
		t.metrics.FixturesChecked.Add(float64(stats.Checked))
	}

	t.logger.Info().
		Str("date", date).
		Int("checked", stats.Checked).
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched).
		Int("updated", stats.Updated).
		Int("finished", stats.Finished).
		Int("notified", stats.Notified).
		Dur("elapsed", time.Since(start)).
		Msg("Cycle complete")
	return stats, nil
}

func (t *Tracker) findFixture(rec *models.PredictionRecord, fixtures []models.FeedFixture) *models.FeedFixture {
	for i := range fixtures {
		f := &fixtures[i]
		if t.resolver.Matches(rec.HomeTeam, rec.AwayTeam, f.HomeTeam, f.AwayTeam) {
			return f
		}
	}
	return nil
}

// apply folds the feed fixture into the record. Returns whether anything
// changed and whether the record transitioned to finished on this pass.
func (t *Tracker) apply(rec *models.PredictionRecord, f *models.FeedFixture) (changed, finishedNow bool) {
	state := livefeed.ClassifyStatus(f.StatusShort)

	if rec.LiveStatus != f.StatusShort {
		rec.LiveStatus = f.StatusShort
		changed = true
	}
	if setInt(&rec.HomeScore, f.HomeGoals) {
		changed = true
	}
	if setInt(&rec.AwayScore, f.AwayGoals) {
		changed = true
	}
	if setInt(&rec.HalftimeHome, f.HalftimeHome) {
		changed = true
	}
	if setInt(&rec.HalftimeAway, f.HalftimeAway) {
		changed = true
	}
	if setInt(&rec.Elapsed, f.Elapsed) {
		changed = true
	}

	switch state {
	case models.StateLive:
		if !rec.IsLive {
			rec.IsLive = true
			changed = true
		}
	case models.StateFinished:
		if !rec.IsFinished {
			// A final whistle without goals populated yet cannot settle;
			// leave the record open and grade it on a later poll once the
			// feed fills the score in.
			if rec.HomeScore == nil || rec.AwayScore == nil {
				t.logger.Warn().
					Str("home", rec.HomeTeam).
					Str("away", rec.AwayTeam).
					Str("status", f.StatusShort).
					Msg("Final status without scores, leaving open")
				break
			}
			rec.IsLive = false
			rec.IsFinished = true
			t.settle(rec)
			changed = true
			finishedNow = true
		}
	case models.StateNotStarted:
		if rec.IsLive {
			rec.IsLive = false
			changed = true
		}
	case models.StateOther:
		// Abnormal status: keep the stored lifecycle flags, the fixture may
		// still resume.
	}
	return changed, finishedNow
}

// settle grades the primary prediction and every alternative against the
// final score.
func (t *Tracker) settle(rec *models.PredictionRecord) {
	home := intVal(rec.HomeScore)
	away := intVal(rec.AwayScore)

	rec.Verdict = verdictString(outcome.EvaluateNotation(
		rec.Prediction, home, away, rec.HalftimeHome, rec.HalftimeAway))
	for i := range rec.Alts {
		rec.Alts[i].Verdict = verdictString(outcome.EvaluateNotation(
			rec.Alts[i].Notation, home, away, rec.HalftimeHome, rec.HalftimeAway))
	}

	rec.ResultNote = fmt.Sprintf("FT %d-%d", home, away)
	if rec.HalftimeHome != nil && rec.HalftimeAway != nil {
		rec.ResultNote += fmt.Sprintf(" | HT %d-%d", *rec.HalftimeHome, *rec.HalftimeAway)
	}

	if t.metrics != nil {
		t.metrics.Verdicts.WithLabelValues(rec.Verdict).Inc()
	}
	t.logger.Info().
		Str("home", rec.HomeTeam).
		Str("away", rec.AwayTeam).
		Str("prediction", rec.Prediction).
		Str("verdict", rec.Verdict).
		Str("result", rec.ResultNote).
		Msg("Prediction settled")
}

// notifyRecord fires whatever messages the record's current state calls for.
// A token enters the ledger only after its send succeeds, so a failed send
// retries on the next cycle and a sent message never repeats.
func (t *Tracker) notifyRecord(ctx context.Context, rec *models.PredictionRecord) int {
	if t.notifier == nil {
		return 0
	}
	led := ledger.Parse(rec.Notifications)
	sent := 0

	send := func(token, text, kind string, silent bool) {
		if !led.ShouldNotify(token) {
			return
		}
		if err := t.notifier.Send(ctx, text, silent); err != nil {
			t.logger.Error().Err(err).Str("token", token).Msg("Notification failed")
			return
		}
		led.Add(token)
		sent++
		if t.metrics != nil {
			t.metrics.Notifications.WithLabelValues(kind).Inc()
		}
	}

	switch {
	case rec.IsFinished:
		if rec.Verdict == models.VerdictWon {
			send(ledger.TokenResultWon, notify.FormatResult(rec), "result_won", false)
		} else if rec.Verdict == models.VerdictLost {
			send(ledger.TokenResultLost, notify.FormatResult(rec), "result_lost", true)
		}

	case rec.IsLive:
		st := alert.Assess(rec.Prediction,
			intVal(rec.HomeScore), intVal(rec.AwayScore), intVal(rec.Elapsed),
			rec.HalftimeHome, rec.HalftimeAway)
		switch st.Level {
		case alert.LevelHot:
			send(ledger.HotToken(st.HomeScore, st.AwayScore), notify.FormatAlert(rec, st), "hot", false)
		case alert.LevelWarm:
			send(ledger.WarmToken(st.HomeScore, st.AwayScore), notify.FormatAlert(rec, st), "warm", false)
		}

	default:
		// Only a genuinely scheduled fixture gets the pre-match notice;
		// postponed or cancelled statuses are not upcoming.
		if livefeed.ClassifyStatus(rec.LiveStatus) == models.StateNotStarted {
			send(ledger.TokenUpcoming, notify.FormatUpcoming(rec), "upcoming", true)
		}
	}

	if sent > 0 {
		rec.Notifications = led.String()
	}
	return sent
}

// writeBack persists dirty records concurrently under one shared deadline.
// A straggler past the deadline is abandoned and retried naturally on the
// next cycle since its stored state still differs from the feed.
func (t *Tracker) writeBack(ctx context.Context, dirty []*models.PredictionRecord) int {
	if len(dirty) == 0 {
		return 0
	}

	writeCtx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	written := 0

	for _, rec := range dirty {
		wg.Add(1)
		go func(rec *models.PredictionRecord) {
			defer wg.Done()
			if err := t.store.UpdateLive(writeCtx, rec); err != nil {
				if t.metrics != nil {
					t.metrics.WriteErrors.Inc()
				}
				t.logger.Error().Err(err).Int64("id", rec.ID).Msg("Write-back failed")
				return
			}
			if t.metrics != nil {
				t.metrics.Writes.Inc()
			}
			mu.Lock()
			written++
			mu.Unlock()
		}(rec)
	}
	wg.Wait()
	return written
}

func setInt(dst **int, src *int) bool {
	if src == nil {
		return false
	}
	if *dst != nil && **dst == *src {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func intVal(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func verdictString(v outcome.Verdict) string {
	switch v {
	case outcome.Won:
		return models.VerdictWon
	case outcome.Lost:
		return models.VerdictLost
	default:
		return models.VerdictUnknown
	}
}
