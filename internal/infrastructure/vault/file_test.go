package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

func testIdentity() *domain.Identity {
	return &domain.Identity{
		ID:       7,
		Username: "rosa",
		Email:    "rosa@example.com",
		FullName: "Rosa Diaz",
		Roles:    []string{domain.RoleCustomer},
		Active:   true,
	}
}

func TestFileVault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	v, err := NewFile(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	cred := domain.Credential{Token: "tok-123", Type: "Bearer"}
	if err := v.Store(ctx, cred, testIdentity()); err != nil {
		t.Fatalf("store: %v", err)
	}

	gotCred, gotIdent, err := v.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotCred != cred {
		t.Fatalf("credential = %+v, want %+v", gotCred, cred)
	}
	if gotIdent == nil || gotIdent.Username != "rosa" || !gotIdent.HasRole(domain.RoleCustomer) {
		t.Fatalf("identity = %+v", gotIdent)
	}
}

func TestFileVault_MissingFileIsAbsence(t *testing.T) {
	v, err := NewFile(filepath.Join(t.TempDir(), "session.json"), zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cred, ident, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() || ident != nil {
		t.Fatalf("expected absence, got (%+v, %+v)", cred, ident)
	}
}

func TestFileVault_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	v, err := NewFile(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := v.Store(ctx, domain.Credential{Token: "t", Type: "Bearer"}, testIdentity()); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := v.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := v.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	cred, ident, err := v.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() || ident != nil {
		t.Fatal("cleared vault still holds a session")
	}
}

func TestFileVault_CorruptContentReadsAsAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	v, err := NewFile(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cred, ident, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() || ident != nil {
		t.Fatal("corrupt file must read as absence")
	}
}

func TestFileVault_PartialDocumentReadsAsAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	v, err := NewFile(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// A token without an identity is the half-written state.
	if err := os.WriteFile(path, []byte(`{"credential":{"token":"t","tokenType":"Bearer"}}`), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cred, ident, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() || ident != nil {
		t.Fatal("partial document must read as absence")
	}
}
