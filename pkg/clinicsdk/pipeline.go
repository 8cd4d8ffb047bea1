package clinicsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/idx"
)

// Request is a single API call. Body, when non-nil, is JSON encoded.
//
// Send assigns ID when it is zero; the ID is how the pipeline remembers that a
// request already went through 401 handling.
type Request struct {
	ID     idx.ID
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// Response is a successful (2xx) API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  idx.ID
}

// Decode unmarshals the response body into target.
func (r *Response) Decode(target any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("failed to decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Send transmits req with the stored bearer token and returns the response or
// a classified *APIError.
//
// On a 401 the stored session is cleared and, when a Navigator is configured
// and the user is not on a public route, they are sent to the login route.
// The original failure is returned; the request is never resent.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.ID.IsZero() {
		req.ID = idx.New()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.authorize(ctx, httpReq); err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to send request: %w", ctx.Err())
		}
		return nil, &APIError{
			Kind:      KindNetwork,
			Method:    req.Method,
			Path:      req.Path,
			RequestID: req.ID,
			Message:   err.Error(),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			RequestID:  req.ID,
		}, nil
	}

	// A status line was received, so a cut-off body is still classified by
	// status and a 401 still tears the session down.
	if readErr != nil {
		body = nil
	}
	apiErr := parseErrorResponse(resp.StatusCode, body)
	apiErr.Method = req.Method
	apiErr.Path = req.Path
	apiErr.RequestID = req.ID
	if readErr != nil {
		apiErr.Err = readErr
		if apiErr.Message == "" {
			apiErr.Message = "failed to read response body"
		}
	}

	if apiErr.Kind == KindUnauthorized {
		c.handleUnauthorized(ctx, req.ID)
	}

	return nil, apiErr
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := c.url(req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	req.ID.Set(httpReq.Header)

	return httpReq, nil
}

// authorize injects the stored access token. Without one the request is left
// untouched.
func (c *Client) authorize(ctx context.Context, httpReq *http.Request) error {
	token, err := c.sessions.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// handleUnauthorized runs the 401 teardown at most once per request.
func (c *Client) handleUnauthorized(ctx context.Context, id idx.ID) {
	if !c.tracker.mark(id) {
		return
	}

	c.teardownMu.Lock()
	defer c.teardownMu.Unlock()

	// The caller may already have given up on ctx; clearing must still happen.
	ctx = context.WithoutCancel(ctx)

	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear session after 401", "req_id", id.String(), "err", err)
	}

	if c.nav == nil {
		return
	}

	if loc := c.nav.Location(); !IsPublicRoute(loc) {
		c.logger.Info("session expired, redirecting to login", "req_id", id.String(), "from", loc)
		c.nav.Navigate(LoginRoute)
	}
}

// ============================================================================
// Retry tracking
// ============================================================================

// retryTrackerTTL bounds how long a request ID is remembered after its
// first 401.
const retryTrackerTTL = 10 * time.Minute

type retryTracker struct {
	mu   sync.Mutex
	seen map[idx.ID]time.Time // id -> when it was first marked
	ttl  time.Duration
	now  func() time.Time
}

func newRetryTracker(ttl time.Duration) *retryTracker {
	return &retryTracker{
		seen: make(map[idx.ID]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// mark records id and reports whether this is the first time it was seen.
func (t *retryTracker) mark(id idx.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = now
	return true
}

func (t *retryTracker) prune(now time.Time) {
	cutoff := now.Add(-t.ttl)
	for id, markedAt := range t.seen {
		if markedAt.Before(cutoff) {
			delete(t.seen, id)
		}
	}
}
