package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// FileVault keeps both slots in a single JSON document on disk. Writing via
// a temp file plus rename makes the two slots change atomically; there is
// no window in which only one of them is persisted.
type FileVault struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewFile builds a file-backed vault at path. An empty path resolves to
// "rosy-glow/session.json" under the user config dir.
func NewFile(path string, log zerolog.Logger) (*FileVault, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("session file location: %w", err)
		}
		path = filepath.Join(dir, "rosy-glow", "session.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session file dir: %w", err)
	}
	return &FileVault{path: path, log: log.With().Str("component", "vault").Logger()}, nil
}

func (v *FileVault) Load(ctx context.Context) (domain.Credential, *domain.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := os.ReadFile(v.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credential{}, nil, nil
	}
	if err != nil {
		return domain.Credential{}, nil, fmt.Errorf("read session file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil || !doc.usable() {
		// Corrupt or partial content is treated as absence, not an error.
		v.log.Warn().Str("path", v.path).Msg("discarding unusable persisted session")
		return domain.Credential{}, nil, nil
	}
	return doc.Credential, doc.Identity, nil
}

func (v *FileVault) Store(ctx context.Context, cred domain.Credential, identity *domain.Identity) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := json.Marshal(document{Credential: cred, Identity: identity})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, v.path); err != nil {
		return fmt.Errorf("commit session file: %w", err)
	}
	return nil
}

func (v *FileVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}

var _ ports.SessionVault = (*FileVault)(nil)
