package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// stubGateway records calls and delegates to a scripted handler.
type stubGateway struct {
	mu      sync.Mutex
	calls   []ports.GatewayRequest
	handler func(ctx context.Context, req ports.GatewayRequest) error
}

func (g *stubGateway) Call(ctx context.Context, req ports.GatewayRequest) error {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	handler := g.handler
	g.mu.Unlock()
	if handler != nil {
		return handler(ctx, req)
	}
	return nil
}

func (g *stubGateway) Upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	return g.Call(ctx, ports.GatewayRequest{Method: "POST", Path: path, Out: out})
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *stubGateway) lastCall() ports.GatewayRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

// writeOut plays the server: it round-trips value into the request's Out
// target the way the real gateway decodes a response body.
func writeOut(out, value any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// fixedAuth is a canned ports.AuthState.
type fixedAuth struct {
	mu            sync.Mutex
	authenticated bool
}

func (a *fixedAuth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authenticated
}

func (a *fixedAuth) set(v bool) {
	a.mu.Lock()
	a.authenticated = v
	a.mu.Unlock()
}
