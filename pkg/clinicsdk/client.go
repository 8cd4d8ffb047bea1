package clinicsdk

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/session"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when NewClient is given an empty base URL.
const DefaultBaseURL = "http://127.0.0.1:8000/api"

// DefaultTimeout bounds every round trip unless overridden.
const DefaultTimeout = 10 * time.Second

// Client is a client for the clinic REST API. Every call goes through Send,
// which injects the stored bearer token and tears the session down on 401.
//
// A Client is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	sessions session.Store
	nav      Navigator
	limiter  *rate.Limiter
	logger   *slog.Logger

	tracker *retryTracker

	// teardownMu serialises the clear-and-navigate step of 401 handling.
	teardownMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithSessionStore sets the credential store. Defaults to an in-memory store.
func WithSessionStore(st session.Store) Option {
	return func(c *Client) { c.sessions = st }
}

// WithNavigator sets the navigation surface used to send the user to the
// login route after a 401.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithLogger sets the logger for pipeline events and outbound request logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tracker: newRetryTracker(retryTrackerTTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.sessions == nil {
		c.sessions = session.NewMemoryStore(session.DefaultNamespace)
	}
	if c.HTTPClient.Transport == nil {
		c.HTTPClient.Transport = slogx.NewTransport(nil, c.logger)
	}

	return c
}

// Sessions returns the credential store the client reads tokens from.
func (c *Client) Sessions() session.Store { return c.sessions }

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}
