package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
)

// SessionStore owns the authenticated identity, its credential, and their
// persistence lifecycle. The state machine is
// uninitialized → restoring → {authenticated | anonymous}; after boot the
// two terminal states flip between each other directly via login, logout
// and gateway-forced invalidation.
//
// Identity is only ever replaced wholesale. Credential and identity move
// through the vault together, so no partially-persisted session can exist.
type SessionStore struct {
	gw    ports.Gateway
	vault ports.SessionVault
	bus   ports.Bus
	log   zerolog.Logger

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
	cred     domain.Credential
}

func NewSessionStore(gw ports.Gateway, vault ports.SessionVault, bus ports.Bus, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		gw:    gw,
		vault: vault,
		bus:   bus,
		log:   log.With().Str("component", "session").Logger(),
		state: domain.SessionUninitialized,
	}
}

// Restore reads the persisted session at startup. It never makes a network
// call: restoration is optimistic, and a credential the server no longer
// accepts is corrected by the first authorized request's 401.
func (s *SessionStore) Restore(ctx context.Context) {
	s.transition(func() domain.SessionState {
		s.state = domain.SessionRestoring
		return s.state
	})

	cred, identity, err := s.vault.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore failed, starting anonymous")
	}

	s.transition(func() domain.SessionState {
		if err == nil && !cred.Empty() && identity != nil {
			s.cred = cred
			s.identity = identity
			s.state = domain.SessionAuthenticated
		} else {
			s.cred = domain.Credential{}
			s.identity = nil
			s.state = domain.SessionAnonymous
		}
		return s.state
	})

	s.log.Info().Str("state", string(s.State())).Msg("session restored")
}

// Login authenticates against the backing API. On success the returned
// credential and identity are stored, persisted and the session becomes
// authenticated; on failure nothing changes and the error is the caller's
// to display.
func (s *SessionStore) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	req := domain.LoginRequest{Username: username, Password: password}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	var resp domain.AuthResponse
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: "POST",
		Path:   "/auth/login",
		Body:   req,
		Out:    &resp,
	}); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return s.establish(ctx, resp)
}

// Register creates an account. The API hands back a credential immediately,
// so success yields an authenticated session just like login.
func (s *SessionStore) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Identity, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	var resp domain.AuthResponse
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: "POST",
		Path:   "/auth/register",
		Body:   req,
		Out:    &resp,
	}); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.establish(ctx, resp)
}

func (s *SessionStore) establish(ctx context.Context, resp domain.AuthResponse) (*domain.Identity, error) {
	cred := domain.Credential{Token: resp.Token, Type: resp.TokenType}
	identity := resp.User

	if err := s.vault.Store(ctx, cred, &identity); err != nil {
		// The session is still good for this process; only the next boot
		// loses it.
		s.log.Warn().Err(err).Msg("could not persist session")
	}

	s.transition(func() domain.SessionState {
		s.cred = cred
		s.identity = &identity
		s.state = domain.SessionAuthenticated
		return s.state
	})

	s.log.Info().Str("username", identity.Username).Msg("session established")
	out := identity
	return &out, nil
}

// Logout clears the session locally. The token scheme is stateless, so no
// network call is involved.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.vault.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("could not clear persisted session")
	}

	s.transition(func() domain.SessionState {
		s.cred = domain.Credential{}
		s.identity = nil
		s.state = domain.SessionAnonymous
		return s.state
	})

	s.log.Info().Msg("logged out")
}

// RefreshIdentity re-fetches the profile and replaces the cached copy.
// Failures are logged and swallowed: a stale profile beats forcing a logout
// over what may be a transient read error. (A 401 still hard-invalidates,
// but that happens in the gateway, not here.)
func (s *SessionStore) RefreshIdentity(ctx context.Context) {
	s.mu.RLock()
	state := s.state
	var id int64
	if s.identity != nil {
		id = s.identity.ID
	}
	s.mu.RUnlock()

	if state != domain.SessionAuthenticated {
		return
	}

	var identity domain.Identity
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: "GET",
		Path:   fmt.Sprintf("/users/%d", id),
		Out:    &identity,
	}); err != nil {
		s.log.Warn().Err(err).Msg("identity refresh failed, keeping cached profile")
		return
	}

	s.mu.Lock()
	if s.state != domain.SessionAuthenticated {
		// Invalidated while the fetch was in flight; the response is moot.
		s.mu.Unlock()
		return
	}
	s.identity = &identity
	cred := s.cred
	s.mu.Unlock()

	if err := s.vault.Store(ctx, cred, &identity); err != nil {
		s.log.Warn().Err(err).Msg("could not persist refreshed identity")
	}
}

// Invalidate implements ports.Authority. The gateway calls it on any
// unauthorized response, before the caller sees the error. Idempotent and
// purely local.
func (s *SessionStore) Invalidate(ctx context.Context) {
	if err := s.vault.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("could not clear persisted session")
	}

	s.mu.Lock()
	already := s.state == domain.SessionAnonymous && s.cred.Empty()
	s.cred = domain.Credential{}
	s.identity = nil
	s.state = domain.SessionAnonymous
	s.mu.Unlock()

	if already {
		return
	}
	s.log.Warn().Msg("session invalidated")
	s.bus.Publish(events.TopicSessionChanged, domain.SessionAnonymous)
}

// Credential implements ports.Authority.
func (s *SessionStore) Credential() (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, !s.cred.Empty()
}

// Session returns a snapshot of the current session. The snapshot is always
// consistent: identity and credential are present together or not at all.
func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.Session{State: s.state, Credential: s.cred}
	if s.identity != nil {
		identity := *s.identity
		out.Identity = &identity
	}
	return out
}

// Identity returns a copy of the cached profile, or nil when anonymous.
func (s *SessionStore) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	out := *s.identity
	return &out
}

func (s *SessionStore) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.State() == domain.SessionAuthenticated
}

func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.SessionAuthenticated && s.identity.HasRole(domain.RoleAdmin)
}

// transition runs the state mutation under the lock and publishes the
// resulting state after releasing it, so subscribers are free to read the
// store.
func (s *SessionStore) transition(mutate func() domain.SessionState) {
	s.mu.Lock()
	next := mutate()
	s.mu.Unlock()
	s.bus.Publish(events.TopicSessionChanged, next)
}

var _ ports.Authority = (*SessionStore)(nil)
var _ ports.AuthState = (*SessionStore)(nil)
