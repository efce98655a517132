package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dogan7/goalsignal/internal/teams"
	"github.com/Dogan7/goalsignal/models"
)

type fakeStore struct {
	records []models.PredictionRecord
	writes  int
	failErr error
}

func (s *fakeStore) InsertPrediction(ctx context.Context, rec *models.PredictionRecord) (bool, error) {
	return true, nil
}

func (s *fakeStore) ActiveByDate(ctx context.Context, date string) ([]models.PredictionRecord, error) {
	out := make([]models.PredictionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) UpdateLive(ctx context.Context, rec *models.PredictionRecord) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.writes++
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = *rec
		}
	}
	return nil
}

type fakeFeed struct {
	calls    int
	fixtures []models.FeedFixture
}

func (f *fakeFeed) Fetch(ctx context.Context, date string) ([]models.FeedFixture, error) {
	f.calls++
	return f.fixtures, nil
}

type fakeNotifier struct {
	sent    []string
	silents []bool
	failErr error
}

func (n *fakeNotifier) Send(ctx context.Context, text string, silent bool) error {
	if n.failErr != nil {
		return n.failErr
	}
	n.sent = append(n.sent, text)
	n.silents = append(n.silents, silent)
	return nil
}

func intp(v int) *int { return &v }

func newTracker(store *fakeStore, feed *fakeFeed, notifier *fakeNotifier) *Tracker {
	return New(Options{
		Store:        store,
		Feed:         feed,
		Resolver:     teams.NewMatcher(nil),
		Notifier:     notifier,
		WriteTimeout: time.Second,
	})
}

func liveFixture(home, away string, hg, ag, elapsed int) models.FeedFixture {
	return models.FeedFixture{
		HomeTeam: home, AwayTeam: away,
		StatusShort: "2H", Elapsed: intp(elapsed),
		HomeGoals: intp(hg), AwayGoals: intp(ag),
	}
}

func TestRunCycleSkipsFeedWithoutActiveRecords(t *testing.T) {
	feed := &fakeFeed{}
	tr := newTracker(&fakeStore{}, feed, &fakeNotifier{})

	stats, err := tr.RunCycle(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if feed.calls != 0 {
		t.Error("feed must not be fetched when nothing is tracked")
	}
	if stats.Checked != 0 {
		t.Errorf("checked = %d, want 0", stats.Checked)
	}
}

func TestRunCycleIdempotentWrites(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", Confidence: 90,
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{
		liveFixture("Liverpool", "Everton", 1, 0, 55),
	}}
	tr := newTracker(store, feed, &fakeNotifier{})

	ctx := context.Background()
	stats, err := tr.RunCycle(ctx, "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 {
		t.Fatalf("first cycle updated = %d, want 1", stats.Updated)
	}

	// Same feed snapshot again: nothing changed, nothing written.
	store.writes = 0
	stats, err = tr.RunCycle(ctx, "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if store.writes != 0 {
		t.Errorf("second identical cycle wrote %d records, want 0", store.writes)
	}
	if stats.Matched != 1 {
		t.Errorf("matched = %d, want 1", stats.Matched)
	}
}

func TestRunCycleUnmatchedCounted(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		MatchDate: "2026-03-01", Prediction: "1",
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{
		liveFixture("Ajax", "Feyenoord", 0, 0, 10),
	}}
	tr := newTracker(store, feed, &fakeNotifier{})

	stats, err := tr.RunCycle(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Unmatched != 1 || stats.Matched != 0 {
		t.Errorf("unmatched=%d matched=%d, want 1/0", stats.Unmatched, stats.Matched)
	}
}

func TestRunCycleSettlesFinishedMatch(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", Confidence: 91,
		Alts: []models.AltPrediction{{Notation: "BTTS-yes", Confidence: 88}},
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton",
		StatusShort: "FT", Elapsed: intp(90),
		HomeGoals: intp(2), AwayGoals: intp(1),
		HalftimeHome: intp(1), HalftimeAway: intp(0),
	}}}
	notifier := &fakeNotifier{}
	tr := newTracker(store, feed, notifier)

	stats, err := tr.RunCycle(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Finished != 1 {
		t.Fatalf("finished = %d, want 1", stats.Finished)
	}

	rec := store.records[0]
	if !rec.IsFinished || rec.IsLive {
		t.Error("record must be finished and not live")
	}
	if rec.Verdict != models.VerdictWon {
		t.Errorf("verdict = %q, want won", rec.Verdict)
	}
	if rec.Alts[0].Verdict != models.VerdictWon {
		t.Errorf("alt verdict = %q, want won", rec.Alts[0].Verdict)
	}
	if rec.ResultNote != "FT 2-1 | HT 1-0" {
		t.Errorf("result note = %q", rec.ResultNote)
	}

	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "WON") {
		t.Errorf("sent = %v, want one won message", notifier.sent)
	}
	if notifier.silents[0] {
		t.Error("a won result must arrive with sound")
	}
}

func TestRunCycleLostResultIsSilent(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 3.5",
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton",
		StatusShort: "FT", HomeGoals: intp(1), AwayGoals: intp(0),
	}}}
	notifier := &fakeNotifier{}
	tr := newTracker(store, feed, notifier)

	if _, err := tr.RunCycle(context.Background(), "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if store.records[0].Verdict != models.VerdictLost {
		t.Fatalf("verdict = %q, want lost", store.records[0].Verdict)
	}
	if len(notifier.silents) != 1 || !notifier.silents[0] {
		t.Error("a lost result must arrive silently")
	}
}

func TestNotificationsAtMostOnce(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", Confidence: 90,
	}}}
	// 2-0 after an hour: one goal from clearing 2.5, a hot alert.
	feed := &fakeFeed{fixtures: []models.FeedFixture{
		liveFixture("Liverpool", "Everton", 2, 0, 60),
	}}
	notifier := &fakeNotifier{}
	tr := newTracker(store, feed, notifier)

	ctx := context.Background()
	if _, err := tr.RunCycle(ctx, "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1 hot alert", len(notifier.sent))
	}

	// Same score on the next poll: the hot token is already in the ledger.
	if _, err := tr.RunCycle(ctx, "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent = %d messages after second cycle, want still 1", len(notifier.sent))
	}

	if !strings.Contains(store.records[0].Notifications, "hot_2-0") {
		t.Errorf("ledger = %q, want hot_2-0 recorded", store.records[0].Notifications)
	}
}

func TestFailedSendRetriesNextCycle(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5",
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{
		liveFixture("Liverpool", "Everton", 2, 0, 60),
	}}
	notifier := &fakeNotifier{failErr: errors.New("telegram down")}
	tr := newTracker(store, feed, notifier)

	ctx := context.Background()
	if _, err := tr.RunCycle(ctx, "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(store.records[0].Notifications, "hot_2-0") {
		t.Fatal("failed send must not enter the ledger")
	}

	notifier.failErr = nil
	if _, err := tr.RunCycle(ctx, "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent = %d, want the retried alert", len(notifier.sent))
	}
	if !strings.Contains(store.records[0].Notifications, "hot_2-0") {
		t.Error("successful retry must enter the ledger")
	}
}

func TestUpcomingNoticeIsSilent(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", Kickoff: "20:00",
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton", StatusShort: "NS",
	}}}
	notifier := &fakeNotifier{}
	tr := newTracker(store, feed, notifier)

	if _, err := tr.RunCycle(context.Background(), "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.silents) != 1 || !notifier.silents[0] {
		t.Error("upcoming notice must be silent")
	}
	if !strings.Contains(store.records[0].Notifications, "upcoming") {
		t.Errorf("ledger = %q, want upcoming recorded", store.records[0].Notifications)
	}
}

func TestFinalStatusWithoutScoresStaysOpen(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", IsLive: true,
	}}}
	// The feed flips to FT before the goal fields are populated.
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton", StatusShort: "FT",
	}}}
	tr := newTracker(store, feed, &fakeNotifier{})

	ctx := context.Background()
	stats, err := tr.RunCycle(ctx, "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Finished != 0 {
		t.Fatalf("finished = %d, want 0 without scores", stats.Finished)
	}
	rec := store.records[0]
	if rec.IsFinished {
		t.Fatal("record must stay open until the feed reports a score")
	}
	if rec.Verdict != "" {
		t.Fatalf("verdict = %q, want unsettled", rec.Verdict)
	}

	// Scores arrive on a later poll: now it settles.
	feed.fixtures[0].HomeGoals = intp(2)
	feed.fixtures[0].AwayGoals = intp(1)
	stats, err = tr.RunCycle(ctx, "2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Finished != 1 {
		t.Fatalf("finished = %d, want 1 once scores arrive", stats.Finished)
	}
	rec = store.records[0]
	if !rec.IsFinished || rec.Verdict != models.VerdictWon {
		t.Errorf("finished=%v verdict=%q, want settled won", rec.IsFinished, rec.Verdict)
	}
	if rec.ResultNote != "FT 2-1" {
		t.Errorf("result note = %q, want FT 2-1", rec.ResultNote)
	}
}

func TestPostponedFixtureGetsNoUpcomingNotice(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5",
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton", StatusShort: "PST",
	}}}
	notifier := &fakeNotifier{}
	tr := newTracker(store, feed, notifier)

	if _, err := tr.RunCycle(context.Background(), "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent = %v, want nothing for a postponed fixture", notifier.sent)
	}
	if store.records[0].Notifications != "" {
		t.Errorf("ledger = %q, want empty", store.records[0].Notifications)
	}
}

func TestAbnormalStatusKeepsRecordOpen(t *testing.T) {
	store := &fakeStore{records: []models.PredictionRecord{{
		ID: 1, HomeTeam: "Liverpool", AwayTeam: "Everton",
		MatchDate: "2026-03-01", Prediction: "over 2.5", IsLive: true,
	}}}
	feed := &fakeFeed{fixtures: []models.FeedFixture{{
		HomeTeam: "Liverpool", AwayTeam: "Everton", StatusShort: "SUSP",
		HomeGoals: intp(1), AwayGoals: intp(0), Elapsed: intp(30),
	}}}
	tr := newTracker(store, feed, &fakeNotifier{})

	if _, err := tr.RunCycle(context.Background(), "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	rec := store.records[0]
	if rec.IsFinished {
		t.Error("a suspended match must not settle")
	}
	if !rec.IsLive {
		t.Error("abnormal status must keep the stored lifecycle flags")
	}
	if rec.LiveStatus != "SUSP" {
		t.Errorf("live status = %q, want SUSP recorded", rec.LiveStatus)
	}
}
