// Package gateway implements the single outbound request pipeline to the
// backing store API. Every other component calls through here; the gateway
// owns the two cross-cutting behaviours nothing else is allowed to touch:
// attaching the current credential, and forcing the session anonymous the
// moment the API rejects one.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/metrics"
)

// Client is the ports.Gateway implementation over net/http.
type Client struct {
	baseURL string
	http    *http.Client
	bus     ports.Bus
	log     zerolog.Logger

	mu        sync.RWMutex
	authority ports.Authority
}

// New builds a gateway against baseURL. Timeout bounds the whole request
// including body read; zero delegates entirely to the transport.
func New(baseURL string, timeout time.Duration, bus ports.Bus, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		bus:     bus,
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// Bind attaches the session authority. Must be called during boot wiring,
// before any authenticated traffic; until then requests go out without a
// credential.
func (c *Client) Bind(a ports.Authority) {
	c.mu.Lock()
	c.authority = a
	c.mu.Unlock()
}

// Call implements ports.Gateway.
func (c *Client) Call(ctx context.Context, req ports.GatewayRequest) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := c.newRequest(ctx, req.Method, req.Path, req.Query, body)
	if err != nil {
		return err
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return c.send(httpReq, req.Out)
}

// Upload implements ports.Gateway. The multipart body is assembled in
// memory; uploads are bounded well below worrying sizes by the caller's
// validation.
func (c *Client) Upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(httpReq, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if cred, ok := c.credential(); ok {
		typ := cred.Type
		if typ == "" {
			typ = "Bearer"
		}
		req.Header.Set("Authorization", typ+" "+cred.Token)
	}

	return req, nil
}

func (c *Client) credential() (domain.Credential, bool) {
	c.mu.RLock()
	a := c.authority
	c.mu.RUnlock()
	if a == nil {
		return domain.Credential{}, false
	}
	cred, ok := a.Credential()
	if !ok || cred.Empty() {
		return domain.Credential{}, false
	}
	return cred, true
}

func (c *Client) send(req *http.Request, out any) error {
	method, path := req.Method, req.URL.Path
	start := time.Now()

	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport_error").Inc()
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.RequestsTotal.WithLabelValues(method, "unauthorized").Inc()
		// A 401 only condemns the session when the request actually carried
		// its credential; a rejected login attempt must not tear down a
		// session it never used. Invalidation runs synchronously before the
		// caller sees the error: the session store clears its slots, its
		// transition notification clears the cart, so by the time this
		// returns the whole client agrees the user is logged out.
		if req.Header.Get("Authorization") != "" {
			c.invalidate(req.Context())
			c.log.Warn().Str("method", method).Str("path", path).Msg("unauthorized response, session invalidated")
		}
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrUnauthorized, apiError(resp.StatusCode, payload))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RequestsTotal.WithLabelValues(method, "api_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, apiError(resp.StatusCode, payload))
	}

	metrics.RequestsTotal.WithLabelValues(method, "ok").Inc()

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) invalidate(ctx context.Context) {
	c.mu.RLock()
	a := c.authority
	c.mu.RUnlock()
	if a != nil {
		a.Invalidate(ctx)
	}
	metrics.SessionInvalidationsTotal.Inc()
	c.bus.Publish(events.TopicSessionInvalidated)
}

// apiError decodes the canonical {"error": ...} envelope, falling back to a
// "message" field or the raw body for servers that use neither.
func apiError(status int, payload []byte) *domain.APIError {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(payload, &envelope) == nil {
		msg = envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(payload))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &domain.APIError{Status: status, Message: msg}
}
