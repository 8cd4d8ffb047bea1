package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/idx"
)

// Transport is an http.RoundTripper that logs every outbound request at debug
// level, and transport failures at warn level.
type Transport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.Logger.With(
		"method", req.Method,
		"path", req.URL.Path,
		"req_id", req.Header.Get(idx.Header),
	)

	resp, err := t.Base.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Warn("http_client_error", "err", err, "duration_ms", elapsed)
		return nil, err
	}

	log.Debug("http_client_request", "status", resp.StatusCode, "duration_ms", elapsed)
	return resp, nil
}
