package steam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"gametracker/internal/config"
	"gametracker/internal/logger"
)

const (
	defaultAPIBase   = "https://api.steampowered.com"
	defaultStoreBase = "https://store.steampowered.com"
)

// Client talks to the Steam Web API and storefront. All calls go through a
// shared rate limiter (the Web API throttles hard) and a circuit breaker so
// a dead upstream fails fast instead of eating the snapshot job's timeout
// on every game.
type Client struct {
	APIKey  string
	SteamID string

	// Overridable in tests.
	APIBase   string
	StoreBase string

	HTTP    *http.Client
	Logger  *logger.Logger
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg config.SteamConfig, log *logger.Logger) *Client {
	settings := gobreaker.Settings{
		Name:     "steam-api",
		Interval: 2 * time.Minute,
		Timeout:  time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("STEAM", fmt.Sprintf("Circuit breaker %s: %s -> %s", name, from, to))
		},
	}

	return &Client{
		APIKey:    cfg.APIKey,
		SteamID:   cfg.SteamID,
		APIBase:   defaultAPIBase,
		StoreBase: defaultStoreBase,
		HTTP:      &http.Client{Timeout: cfg.RequestTimeout},
		Logger:    log,
		limiter:   rate.NewLimiter(rate.Every(cfg.CallInterval), 1),
		breaker:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// doGet performs a rate-limited GET and returns the response body. Only
// transport-level failures and bad statuses count against the breaker;
// payload decoding happens at the call sites.
func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return body, nil
}
