package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/fixture"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/team"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/cache"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/resilience"
	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://fantasy.premierleague.com/api"
	defaultUserAgent    = "fpl-xvalue/1.0"
	defaultBootstrapTTL = time.Minute
	maxResponseBytes    = 16 << 20

	bootstrapPath = "/bootstrap-static/"
	fixturesPath  = "/fixtures/"
	bootstrapKey  = "bootstrap-static"
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	// BootstrapTTL bounds how long one roster payload serves the player, team
	// and event listings.
	BootstrapTTL   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public Fantasy Premier League API. It implements the
// player, team, gameweek and fixture repositories.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
	bootstrap  *cache.Store[bootstrapEnvelope]
	validate   *validator.Validate
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	bootstrapTTL := cfg.BootstrapTTL
	if bootstrapTTL <= 0 {
		bootstrapTTL = defaultBootstrapTTL
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: retryDelay,
		limiter:    limiter,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		bootstrap:  cache.NewStore[bootstrapEnvelope](bootstrapTTL),
		validate:   validator.New(),
	}
}

// ListPlayers returns every valid roster element in upstream order.
func (c *Client) ListPlayers(ctx context.Context) ([]player.Player, error) {
	env, err := c.loadBootstrap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(env.Elements))
	for _, item := range env.Elements {
		if err := c.validate.StructCtx(ctx, item); err != nil {
			c.logger.WarnContext(ctx, "skip invalid fpl element", "player_id", item.ID, "error", err)
			continue
		}
		out = append(out, mapElement(item))
	}
	return out, nil
}

func (c *Client) ListTeams(ctx context.Context) ([]team.Team, error) {
	env, err := c.loadBootstrap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(env.Teams))
	for _, item := range env.Teams {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapTeam(item))
	}
	return out, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]gameweek.Event, error) {
	env, err := c.loadBootstrap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]gameweek.Event, 0, len(env.Events))
	for _, item := range env.Events {
		out = append(out, mapEvent(item))
	}
	return out, nil
}

func (c *Client) ListFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	var items []fixtureItem
	if err := c.doJSON(ctx, fixturesPath, &items); err != nil {
		return nil, crerr.Wrap(err, "fetch fixtures")
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item))
	}
	return out, nil
}

// ListHistory returns the per-match records of one player for the running
// season, oldest first.
func (c *Client) ListHistory(ctx context.Context, playerID int64) ([]player.MatchRecord, error) {
	if playerID <= 0 {
		return nil, crerr.Wrapf(usecase.ErrInvalidInput, "player id must be greater than zero")
	}

	var env elementSummaryEnvelope
	path := fmt.Sprintf("/element-summary/%d/", playerID)
	if err := c.doJSON(ctx, path, &env); err != nil {
		return nil, crerr.Wrapf(err, "fetch history player_id=%d", playerID)
	}

	out := make([]player.MatchRecord, 0, len(env.History))
	for _, item := range env.History {
		out = append(out, mapHistory(item))
	}
	return out, nil
}

// Invalidate drops the cached roster payload.
func (c *Client) Invalidate(ctx context.Context) {
	c.bootstrap.Delete(ctx, bootstrapKey)
}

func (c *Client) loadBootstrap(ctx context.Context) (bootstrapEnvelope, error) {
	env, err := c.bootstrap.GetOrLoad(ctx, bootstrapKey, func(ctx context.Context) (bootstrapEnvelope, error) {
		var out bootstrapEnvelope
		if err := c.doJSON(ctx, bootstrapPath, &out); err != nil {
			return bootstrapEnvelope{}, err
		}
		return out, nil
	})
	if err != nil {
		return bootstrapEnvelope{}, crerr.Wrap(err, "fetch bootstrap-static")
	}
	return env, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "fantasy data provider is temporarily unavailable")
	}

	fullURL := c.baseURL + path
	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode fpl payload path=%s", path)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, crerr.Wrap(err, "wait for rate limiter")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errFPLTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errFPLTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(usecase.ErrNotFound, "fpl status=%d url=%s", resp.StatusCode, fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errFPLTransient, "fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Newf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryDelay
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("fpl request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errFPLTransient)
}

// IsTransient reports whether err came from a network failure or a
// retryable upstream status.
func IsTransient(err error) bool {
	return isCircuitFailure(err)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
