// The engine command runs one matching pass: it reads an odds snapshot,
// matches every fixture against the golden rules, and stores the resulting
// predictions.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dogan7/goalsignal/internal/config"
	"github.com/Dogan7/goalsignal/internal/database"
	"github.com/Dogan7/goalsignal/internal/rules"
	"github.com/Dogan7/goalsignal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl)

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: engine <odds-snapshot.json>")
	}
	snapshotPath := os.Args[1]

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to database failed")
	}
	defer db.Close()

	ruleSet, err := rules.LoadFile(cfg.RulesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading rules failed")
	}
	log.Info().Int("rules", len(ruleSet)).Str("path", cfg.RulesPath).Msg("Rules loaded")

	raw, err := os.ReadFile(snapshotPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", snapshotPath).Msg("Reading odds snapshot failed")
	}
	var fixtures []models.FixtureOdds
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		log.Fatal().Err(err).Msg("Parsing odds snapshot failed")
	}

	engine := rules.NewEngine(rules.Options{
		Tolerance:     cfg.RuleTolerance,
		MinConfidence: cfg.MinConfidence,
		PrimaryMarket: cfg.PrimaryMarketKey,
		MinPrice:      cfg.MinPrice,
		MaxPrice:      cfg.MaxPrice,
	})

	ctx := context.Background()
	start := time.Now()

	runID, err := db.CreateRun(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Creating run failed")
	}

	var found, stored, skippedOdds, duplicates int
	for i := range fixtures {
		f := &fixtures[i]

		res, err := engine.Match(f.Odds, ruleSet)
		if err != nil {
			skippedOdds++
			log.Debug().
				Str("home", f.HomeTeam).
				Str("away", f.AwayTeam).
				Err(err).
				Msg("Fixture skipped")
			continue
		}
		if res == nil {
			continue
		}
		found++

		alts := make([]models.AltPrediction, 0, len(res.Alternatives))
		for _, a := range res.Alternatives {
			alts = append(alts, models.AltPrediction{
				Notation:   a.Notation,
				Confidence: a.Confidence,
				RuleID:     a.RuleID,
			})
		}

		rec := &models.PredictionRecord{
			HomeTeam:   f.HomeTeam,
			AwayTeam:   f.AwayTeam,
			League:     f.League,
			MatchDate:  f.MatchDate,
			Kickoff:    f.Kickoff,
			Prediction: res.Primary.Notation,
			Confidence: res.Primary.Confidence,
			Alts:       alts,
			RuleIDs:    res.RuleIDs,
			RunID:      runID,
		}

		inserted, err := db.InsertPrediction(ctx, rec)
		if err != nil {
			log.Error().Err(err).
				Str("home", f.HomeTeam).
				Str("away", f.AwayTeam).
				Msg("Storing prediction failed")
			continue
		}
		if !inserted {
			duplicates++
			continue
		}
		stored++

		log.Info().
			Str("home", f.HomeTeam).
			Str("away", f.AwayTeam).
			Str("prediction", rec.Prediction).
			Int("confidence", rec.Confidence).
			Int("alternatives", len(alts)).
			Msg("Prediction stored")
	}

	if err := db.CompleteRun(ctx, runID, len(fixtures), found, time.Since(start), ""); err != nil {
		log.Error().Err(err).Msg("Completing run failed")
	}

	log.Info().
		Str("run_id", runID).
		Int("fixtures", len(fixtures)).
		Int("found", found).
		Int("stored", stored).
		Int("duplicates", duplicates).
		Int("skipped_odds", skippedOdds).
		Dur("elapsed", time.Since(start)).
		Msg("Run complete")
}
