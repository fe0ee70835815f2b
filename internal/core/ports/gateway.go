package ports

import (
	"context"
	"io"
	"net/url"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

// GatewayRequest describes one outbound call to the backing API.
type GatewayRequest struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded as the request payload when non-nil.
	Body any
	// Out, when non-nil, receives the JSON-decoded response payload.
	Out any
}

// Gateway is the single outbound chokepoint to the backing API. It attaches
// the current credential to every request that has one and reacts to an
// authorization failure by invalidating the session before the error is
// returned, so callers never observe a half-invalidated session.
type Gateway interface {
	Call(ctx context.Context, req GatewayRequest) error
	// Upload sends a multipart file upload. Validation of the content is
	// the caller's job; the gateway only moves bytes.
	Upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error
}

// Authority supplies the gateway with the current credential and absorbs
// forced invalidation when the API rejects it. The session store implements
// this.
type Authority interface {
	// Credential returns the current credential and whether one is present.
	Credential() (domain.Credential, bool)
	// Invalidate clears the session locally: persisted slots, in-memory
	// identity and credential. It must be idempotent and must not issue
	// network calls.
	Invalidate(ctx context.Context)
}
