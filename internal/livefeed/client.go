// Package livefeed talks to the API-Football live score service and maps its
// raw status codes onto the tracker's lifecycle states.
package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Dogan7/goalsignal/internal/platform/http"
	"github.com/Dogan7/goalsignal/models"
)

// Client is the API-Football fixtures client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new fixtures client.
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new API-Football client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://v3.football.api-sports.io"
	}

	return &Client{
		apiKey:  options.APIKey,
		baseURL: options.BaseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "livefeed_client").Logger(),
	}
}

// fixturesResponse mirrors the provider's envelope. Only the fields the
// tracker reads are mapped.
type fixturesResponse struct {
	Errors   json.RawMessage `json:"errors"`
	Response []struct {
		Fixture struct {
			ID     int `json:"id"`
			Status struct {
				Short   string `json:"short"`
				Elapsed *int   `json:"elapsed"`
			} `json:"status"`
		} `json:"fixture"`
		Teams struct {
			Home struct {
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
		Goals struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"goals"`
		Score struct {
			Halftime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"halftime"`
		} `json:"score"`
	} `json:"response"`
}

// Fetch returns every fixture the provider lists for date (YYYY-MM-DD).
func (c *Client) Fetch(ctx context.Context, date string) ([]models.FeedFixture, error) {
	url := fmt.Sprintf("%s/fixtures?date=%s", c.baseURL, date)
	return c.fetch(ctx, url)
}

func (c *Client) fetch(ctx context.Context, url string) ([]models.FeedFixture, error) {
	c.logger.Debug().Str("url", url).Msg("Fetching fixtures")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data fixturesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing fixtures JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	// The provider reports errors inside a 200 response: either an object of
	// messages or an empty array when all is well.
	if len(data.Errors) > 0 && string(data.Errors) != "[]" && string(data.Errors) != "{}" {
		c.logger.Error().RawJSON("errors", data.Errors).Msg("Fixtures API error")
		return nil, fmt.Errorf("fixtures API error: %s", data.Errors)
	}

	fixtures := make([]models.FeedFixture, 0, len(data.Response))
	for _, r := range data.Response {
		fixtures = append(fixtures, models.FeedFixture{
			FixtureID:    r.Fixture.ID,
			HomeTeam:     r.Teams.Home.Name,
			AwayTeam:     r.Teams.Away.Name,
			StatusShort:  r.Fixture.Status.Short,
			Elapsed:      r.Fixture.Status.Elapsed,
			HomeGoals:    r.Goals.Home,
			AwayGoals:    r.Goals.Away,
			HalftimeHome: r.Score.Halftime.Home,
			HalftimeAway: r.Score.Halftime.Away,
		})
	}

	c.logger.Debug().Int("count", len(fixtures)).Msg("Fetched fixtures")
	return fixtures, nil
}
