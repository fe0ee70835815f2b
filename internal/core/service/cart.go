package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/metrics"
)

// CartStore caches the server-authoritative cart. Every mutation issues one
// gateway call and, on success, replaces the whole local copy with the
// server's response; nothing is merged or recomputed client-side beyond the
// item count.
//
// Mutations may complete out of order. Each request is stamped with a
// monotonically increasing sequence and a response is dropped when a newer
// one has already been applied, so a stale response can never overwrite the
// effect of a later mutation.
type CartStore struct {
	gw   ports.Gateway
	auth ports.AuthState
	bus  ports.Bus
	log  zerolog.Logger

	mu      sync.Mutex
	cart    *domain.Cart
	seq     uint64
	applied uint64
}

// NewCartStore builds the store and subscribes it to session transitions:
// entering authenticated triggers a refresh, entering anonymous clears the
// cache locally with no network call.
func NewCartStore(gw ports.Gateway, auth ports.AuthState, bus ports.Bus, log zerolog.Logger) (*CartStore, error) {
	s := &CartStore{
		gw:   gw,
		auth: auth,
		bus:  bus,
		log:  log.With().Str("component", "cart").Logger(),
	}
	if err := bus.Subscribe(events.TopicSessionChanged, s.onSessionChanged); err != nil {
		return nil, fmt.Errorf("subscribe cart store: %w", err)
	}
	return s, nil
}

func (s *CartStore) onSessionChanged(state domain.SessionState) {
	switch state {
	case domain.SessionAuthenticated:
		if err := s.Refresh(context.Background()); err != nil {
			s.log.Warn().Err(err).Msg("cart refresh after login failed")
		}
	case domain.SessionAnonymous:
		s.clearLocal()
	}
}

// Refresh replaces the cache from the server, or empties it when the
// session is not authenticated.
func (s *CartStore) Refresh(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		s.clearLocal()
		return nil
	}

	seq := s.nextSeq()
	var cart domain.Cart
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodGet,
		Path:   "/cart",
		Out:    &cart,
	}); err != nil {
		return fmt.Errorf("refresh cart: %w", err)
	}
	s.apply(seq, &cart, "refresh")
	return nil
}

// Add puts quantity units of a product in the cart.
func (s *CartStore) Add(ctx context.Context, productID int64, quantity int) error {
	if !s.auth.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	req := domain.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := validateStruct(&req); err != nil {
		return err
	}

	seq := s.nextSeq()
	var cart domain.Cart
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodPost,
		Path:   "/cart/items",
		Body:   req,
		Out:    &cart,
	}); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	s.apply(seq, &cart, "mutation")
	return nil
}

// SetQuantity changes a line's quantity. A target below one is a removal by
// definition; the server never receives a non-positive quantity.
func (s *CartStore) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, lineID)
	}
	if !s.auth.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	seq := s.nextSeq()
	var cart domain.Cart
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/cart/items/%d", lineID),
		Body:   domain.UpdateCartLineRequest{Quantity: quantity},
		Out:    &cart,
	}); err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	s.apply(seq, &cart, "mutation")
	return nil
}

// Remove deletes a line from the cart.
func (s *CartStore) Remove(ctx context.Context, lineID int64) error {
	if !s.auth.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	seq := s.nextSeq()
	var cart domain.Cart
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/cart/items/%d", lineID),
		Out:    &cart,
	}); err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	s.apply(seq, &cart, "mutation")
	return nil
}

// Clear empties the cart. Clearing an already-empty cart succeeds.
func (s *CartStore) Clear(ctx context.Context) error {
	if !s.auth.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	seq := s.nextSeq()
	var cart domain.Cart
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodDelete,
		Path:   "/cart/clear",
		Out:    &cart,
	}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.apply(seq, &cart, "mutation")
	return nil
}

// Cart returns a copy of the cached cart, or nil when there is none.
func (s *CartStore) Cart() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	out := *s.cart
	out.Lines = append([]domain.CartLine(nil), s.cart.Lines...)
	return &out
}

// Count is the badge value: the sum of line quantities.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

func (s *CartStore) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// apply installs a server response unless a newer request's response has
// already been applied.
func (s *CartStore) apply(seq uint64, cart *domain.Cart, source string) {
	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		metrics.CartStaleResponsesTotal.Inc()
		s.log.Debug().Uint64("seq", seq).Msg("dropping stale cart response")
		return
	}
	s.applied = seq
	s.cart = cart
	count := s.cart.ItemCount()
	s.mu.Unlock()

	metrics.CartReplacementsTotal.WithLabelValues(source).Inc()
	s.bus.Publish(events.TopicCartChanged, count)
}

func (s *CartStore) clearLocal() {
	s.apply(s.nextSeq(), nil, "session")
}
