package vault

import (
	"context"
	"sync"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// MemoryVault holds the session in process memory. Nothing survives a
// restart; useful for tests and for running deliberately stateless.
type MemoryVault struct {
	mu  sync.Mutex
	doc *document
}

func NewMemory() *MemoryVault { return &MemoryVault{} }

func (v *MemoryVault) Load(ctx context.Context) (domain.Credential, *domain.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil || !v.doc.usable() {
		return domain.Credential{}, nil, nil
	}
	identity := *v.doc.Identity
	return v.doc.Credential, &identity, nil
}

func (v *MemoryVault) Store(ctx context.Context, cred domain.Credential, identity *domain.Identity) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	var copied *domain.Identity
	if identity != nil {
		c := *identity
		copied = &c
	}
	v.doc = &document{Credential: cred, Identity: copied}
	return nil
}

func (v *MemoryVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.doc = nil
	return nil
}

var _ ports.SessionVault = (*MemoryVault)(nil)
