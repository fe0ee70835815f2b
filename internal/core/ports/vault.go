package ports

import (
	"context"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

// SessionVault persists the session's two slots, credential and identity.
// The slots are always written together and cleared together; a vault never
// exposes a half-written session. Corrupt or partial stored data reads as
// absence.
type SessionVault interface {
	// Load returns the persisted credential and identity. When nothing
	// usable is stored it returns a zero credential and nil identity with
	// a nil error.
	Load(ctx context.Context) (domain.Credential, *domain.Identity, error)
	Store(ctx context.Context, cred domain.Credential, identity *domain.Identity) error
	Clear(ctx context.Context) error
}
