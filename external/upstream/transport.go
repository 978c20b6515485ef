// Package upstream wraps outbound HTTP calls to third-party services with a
// circuit breaker, status checking and call metrics. Every call is attempted
// exactly once.
package upstream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/bitmark-inc/medassist-api/metrics"
)

const (
	logPrefix = "upstream"

	// maxErrorBody bounds how much of a failed response is kept for the error.
	maxErrorBody = 512
)

// ErrCircuitOpen is returned while the breaker of a service is open.
var ErrCircuitOpen = errors.New("upstream circuit open")

// StatusError is a non-success response from a service.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.StatusCode, e.Body)
}

// Transport is an http.RoundTripper guarded by a per-service circuit breaker.
type Transport struct {
	service      string
	base         http.RoundTripper
	breaker      *gobreaker.CircuitBreaker[*http.Response]
	rejectNon2xx bool
}

// Option configures a Transport.
type Option func(*Transport)

// RejectNon2xx turns every non-2xx response into a *StatusError. Without it
// only 5xx responses count as failures and the response is still handed to
// the caller, which is what SDKs that parse their own error bodies expect.
func RejectNon2xx() Option {
	return func(t *Transport) {
		t.rejectNon2xx = true
	}
}

// WithBase replaces the underlying round tripper.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.base = rt
	}
}

// NewTransport builds a Transport for the named service.
func NewTransport(service string, opts ...Option) *Transport {
	t := &Transport{
		service: service,
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"prefix":  logPrefix,
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return t
}

// NewClient returns an http.Client using a new Transport for the service.
func NewClient(service string, timeout time.Duration, opts ...Option) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(service, opts...),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.breaker.Execute(func() (*http.Response, error) {
		r, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			return r, &StatusError{Service: t.service, StatusCode: r.StatusCode}
		}
		return r, nil
	})
	metrics.UpstreamDuration.WithLabelValues(t.service).Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamCalls.WithLabelValues(t.service, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w", t.service, ErrCircuitOpen)
	}

	var statusErr *StatusError
	if err != nil && !errors.As(err, &statusErr) {
		metrics.UpstreamCalls.WithLabelValues(t.service, "error").Inc()
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.UpstreamCalls.WithLabelValues(t.service, "ok").Inc()
		return resp, nil
	}

	metrics.UpstreamCalls.WithLabelValues(t.service, "error").Inc()
	if !t.rejectNon2xx {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &StatusError{
		Service:    t.service,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}
