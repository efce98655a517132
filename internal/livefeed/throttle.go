package livefeed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dogan7/goalsignal/models"
)

// retain bounds how long a date's snapshot stays cached after its last fetch.
const retain = 48 * time.Hour

// ThrottledFeed caps upstream calls to one per interval per date and serves
// the cached snapshot in between. Each date holds its own slot, so polling
// several dates in one cycle never evicts another date's snapshot. An
// upstream failure falls back to the date's last good snapshot so one flaky
// poll never blanks the tracker's view.
type ThrottledFeed struct {
	upstream models.LiveFeed
	interval time.Duration
	now      func() time.Time // injectable for tests

	mu    sync.Mutex
	dates map[string]*snapshot

	logger zerolog.Logger
}

type snapshot struct {
	fetched  time.Time
	fixtures []models.FeedFixture
}

// NewThrottledFeed wraps upstream with a per-date, per-interval cache.
func NewThrottledFeed(upstream models.LiveFeed, interval time.Duration) *ThrottledFeed {
	return &ThrottledFeed{
		upstream: upstream,
		interval: interval,
		now:      time.Now,
		dates:    make(map[string]*snapshot),
		logger:   log.With().Str("component", "livefeed_throttle").Logger(),
	}
}

// Fetch returns the date's cached snapshot when it is fresh enough, otherwise
// calls upstream.
func (t *ThrottledFeed) Fetch(ctx context.Context, date string) ([]models.FeedFixture, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cached := t.dates[date]
	if cached != nil && now.Sub(cached.fetched) < t.interval {
		t.logger.Debug().Str("date", date).Msg("Serving cached fixtures")
		return cached.fixtures, nil
	}

	fixtures, err := t.upstream.Fetch(ctx, date)
	if err != nil {
		if cached != nil {
			t.logger.Warn().Err(err).Str("date", date).Msg("Upstream fetch failed, serving last good snapshot")
			return cached.fixtures, nil
		}
		return nil, err
	}

	t.dates[date] = &snapshot{fetched: now, fixtures: fixtures}
	t.prune(now)
	return fixtures, nil
}

// prune drops snapshots for dates the tracker stopped asking about.
func (t *ThrottledFeed) prune(now time.Time) {
	for date, s := range t.dates {
		if now.Sub(s.fetched) > retain {
			delete(t.dates, date)
		}
	}
}
