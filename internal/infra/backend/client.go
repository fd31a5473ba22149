// Package backend is the HTTP client of the remote barbershop REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client talks to the booking backend on behalf of one user at a time; the
// user's token travels in the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Recorder
	workDays   []WorkDayRoute
}

// Option configures a Client.
type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithWorkDayRoutes replaces the candidate work-day endpoints.
func WithWorkDayRoutes(routes []WorkDayRoute) Option {
	return func(c *Client) {
		if len(routes) > 0 {
			c.workDays = routes
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
		workDays:   DefaultWorkDayRoutes(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ===============================
// Token propagation
// ===============================

type tokenKey struct{}

// WithToken attaches the backend token used for the requests made under ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// ===============================
// Transport
// ===============================

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// send performs one request and reads the body; only transport failures are errors.
func (c *Client) send(ctx context.Context, op, method, path string, payload any) (response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("marshal %s body: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackend(op, "network_error", time.Since(start).Seconds())
		c.logger.Warn("backend request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return response{}, &booking.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveBackend(op, "network_error", elapsed.Seconds())
		return response{}, &booking.NetworkError{Op: method + " " + path, Err: fmt.Errorf("read body: %w", err)}
	}

	c.metrics.ObserveBackend(op, outcome(resp.StatusCode), elapsed.Seconds())
	c.logger.Debug("backend response",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	return response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        raw,
	}, nil
}

// do is send plus the generic non-2xx mapping.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) (response, error) {
	resp, err := c.send(ctx, op, method, path, payload)
	if err != nil {
		return resp, err
	}
	if !resp.ok() {
		return resp, &booking.BackendError{Status: resp.status, Message: ErrorMessage(resp.body)}
	}
	return resp, nil
}

func (c *Client) getResult(ctx context.Context, op, path string) (shape.Result, error) {
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return shape.Result{}, err
	}
	res := shape.Decode(resp.body)
	if res.Envelope == shape.EnvelopeNone {
		c.logger.Debug("unrecognised response envelope", zap.String("op", op), zap.String("path", path))
	}
	return res, nil
}

// getRecord expects exactly one object back.
func (c *Client) getRecord(ctx context.Context, op, method, path string, payload any) (shape.Record, error) {
	resp, err := c.do(ctx, op, method, path, payload)
	if err != nil {
		return nil, err
	}
	res := shape.Decode(resp.body)
	if res.Envelope != shape.EnvelopeSingle || len(res.Records) != 1 {
		return nil, fmt.Errorf("%s: %w (%s)", op, booking.ErrShapeMismatch, res.Envelope)
	}
	return res.Records[0], nil
}

func outcome(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "ok"
	}
}
