// The tracker command polls the live feed and keeps stored predictions in
// sync: scores, lifecycle transitions, settlement, and alert notifications.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dogan7/goalsignal/internal/config"
	"github.com/Dogan7/goalsignal/internal/database"
	"github.com/Dogan7/goalsignal/internal/livefeed"
	"github.com/Dogan7/goalsignal/internal/metrics"
	"github.com/Dogan7/goalsignal/internal/notify"
	"github.com/Dogan7/goalsignal/internal/teams"
	"github.com/Dogan7/goalsignal/internal/tracker"
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

	var notifier models.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("Connecting telegram bot failed")
		}
		notifier = tg
	} else {
		log.Warn().Msg("Telegram not configured, notifications disabled")
	}

	aliases, err := teams.LoadAliases(cfg.AliasesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading team aliases failed")
	}

	client := livefeed.NewClient(livefeed.ClientOptions{
		APIKey:         cfg.FootballAPIKey,
		BaseURL:        cfg.FootballAPIBase,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
	feed := livefeed.NewThrottledFeed(client, time.Duration(cfg.FeedThrottleSeconds)*time.Second)

	m := metrics.New()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Metrics listening")
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	tr := tracker.New(tracker.Options{
		Store:        db,
		Feed:         feed,
		Resolver:     teams.NewMatcher(aliases),
		Notifier:     notifier,
		Metrics:      m,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", interval).
		Int("days_ahead", cfg.DaysAhead).
		Msg("Tracker started")

	runAll := func() {
		for day := 0; day <= cfg.DaysAhead; day++ {
			date := time.Now().AddDate(0, 0, day).Format("2006-01-02")
			stats, err := tr.RunCycle(ctx, date)
			if err != nil {
				log.Error().Err(err).Str("date", date).Msg("Cycle failed")
				continue
			}
			if stats.Finished > 0 {
				if tally, err := db.Tally(ctx, date); err == nil {
					log.Info().
						Str("date", date).
						Int("won", tally.Won).
						Int("lost", tally.Lost).
						Int("pending", tally.Pending).
						Msg("Day tally")
				}
			}
		}
	}

	runAll()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return
		case <-ticker.C:
			runAll()
		}
	}
}
