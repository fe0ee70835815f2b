package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
)

func serverCart(lines ...domain.CartLine) domain.Cart {
	cart := domain.Cart{ID: 1, UserID: 7, Lines: lines}
	for _, l := range lines {
		cart.TotalAmount += l.Subtotal
	}
	return cart
}

func newCartFixture(t *testing.T, handler func(ctx context.Context, req ports.GatewayRequest) error) (*CartStore, *stubGateway, *fixedAuth, ports.Bus) {
	t.Helper()
	gw := &stubGateway{handler: handler}
	auth := &fixedAuth{authenticated: true}
	bus := events.New()
	store, err := NewCartStore(gw, auth, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}
	return store, gw, auth, bus
}

func TestCartStore_RefreshUnauthenticatedClearsWithoutNetwork(t *testing.T) {
	store, gw, auth, _ := newCartFixture(t, nil)
	auth.set(false)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := store.Cart(); got != nil {
		t.Fatalf("cart = %+v, want nil", got)
	}
	if gw.callCount() != 0 {
		t.Fatalf("refresh issued %d calls while anonymous, want 0", gw.callCount())
	}
}

func TestCartStore_MutationsRequireAuthentication(t *testing.T) {
	store, gw, auth, _ := newCartFixture(t, nil)
	auth.set(false)
	ctx := context.Background()

	if err := store.Add(ctx, 1, 1); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("add: %v", err)
	}
	if err := store.SetQuantity(ctx, 1, 2); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("set quantity: %v", err)
	}
	if err := store.Remove(ctx, 1); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("clear: %v", err)
	}
	if gw.callCount() != 0 {
		t.Fatalf("anonymous mutations issued %d calls, want 0", gw.callCount())
	}
}

func TestCartStore_RefreshReplacesWholesale(t *testing.T) {
	want := serverCart(domain.CartLine{ID: 1, ProductID: 3, ProductName: "Rose Petal Serum", UnitPrice: 32.5, Quantity: 2, Subtotal: 65})
	store, gw, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		return writeOut(req.Out, want)
	})

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if gw.callCount() != 1 {
		t.Fatalf("refresh issued %d fetches, want exactly 1", gw.callCount())
	}
	got := store.Cart()
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("local cart = %+v, want the server payload %+v", *got, want)
	}
	if store.Count() != 2 {
		t.Fatalf("count = %d, want 2", store.Count())
	}
}

func TestCartStore_AddReplacesWithServerResponse(t *testing.T) {
	want := serverCart(domain.CartLine{ID: 9, ProductID: 5, Quantity: 1, UnitPrice: 18, Subtotal: 18})
	store, gw, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		return writeOut(req.Out, want)
	})

	if err := store.Add(context.Background(), 5, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	call := gw.lastCall()
	if call.Method != http.MethodPost || call.Path != "/cart/items" {
		t.Fatalf("add issued %s %s", call.Method, call.Path)
	}
	if got := store.Cart(); !reflect.DeepEqual(*got, want) {
		t.Fatalf("local cart = %+v, want %+v", *got, want)
	}
}

func TestCartStore_MutationFailureLeavesCartUnchanged(t *testing.T) {
	seeded := serverCart(domain.CartLine{ID: 1, ProductID: 3, Quantity: 1, UnitPrice: 10, Subtotal: 10})
	failing := false
	store, _, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		if failing {
			return &domain.APIError{Status: 500, Message: "boom"}
		}
		return writeOut(req.Out, seeded)
	})
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	failing = true
	if err := store.Add(context.Background(), 4, 1); err == nil {
		t.Fatal("expected mutation error")
	}
	if got := store.Cart(); !reflect.DeepEqual(*got, seeded) {
		t.Fatalf("failed mutation changed the cart: %+v", got)
	}
}

func TestCartStore_SetQuantityBelowOneIsRemoval(t *testing.T) {
	store, gw, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		return writeOut(req.Out, serverCart())
	})

	if err := store.SetQuantity(context.Background(), 42, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	call := gw.lastCall()
	if call.Method != http.MethodDelete || call.Path != "/cart/items/42" {
		t.Fatalf("quantity 0 issued %s %s, want DELETE /cart/items/42", call.Method, call.Path)
	}
	if call.Body != nil {
		t.Fatal("removal must not carry a quantity payload")
	}
}

func TestCartStore_ClearTwiceSucceeds(t *testing.T) {
	store, _, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		return writeOut(req.Out, serverCart())
	})

	for i := 0; i < 2; i++ {
		if err := store.Clear(context.Background()); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
		if store.Count() != 0 {
			t.Fatalf("count after clear #%d = %d", i+1, store.Count())
		}
	}
}

func TestCartStore_StaleResponseIsDiscarded(t *testing.T) {
	// add is issued first but its response arrives after clear's.
	addStarted := make(chan struct{})
	releaseAdd := make(chan struct{})
	addCart := serverCart(domain.CartLine{ID: 1, ProductID: 7, Quantity: 1, UnitPrice: 5, Subtotal: 5})

	store, _, _, _ := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		if req.Method == http.MethodPost {
			close(addStarted)
			<-releaseAdd
			return writeOut(req.Out, addCart)
		}
		return writeOut(req.Out, serverCart())
	})

	done := make(chan error, 1)
	go func() { done <- store.Add(context.Background(), 7, 1) }()
	<-addStarted

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}

	close(releaseAdd)
	if err := <-done; err != nil {
		t.Fatalf("add: %v", err)
	}

	// The add's late response must not resurrect the cleared cart.
	if got := store.Count(); got != 0 {
		t.Fatalf("count = %d after clear completed last-in-sequence, want 0", got)
	}
}

func TestCartStore_SessionTransitionsDriveTheCache(t *testing.T) {
	fetched := serverCart(domain.CartLine{ID: 1, ProductID: 2, Quantity: 3, UnitPrice: 4, Subtotal: 12})
	store, gw, auth, bus := newCartFixture(t, func(_ context.Context, req ports.GatewayRequest) error {
		return writeOut(req.Out, fetched)
	})

	bus.Publish(events.TopicSessionChanged, domain.SessionAuthenticated)
	if gw.callCount() != 1 {
		t.Fatalf("entering authenticated issued %d fetches, want 1", gw.callCount())
	}
	if store.Count() != 3 {
		t.Fatalf("count = %d, want 3", store.Count())
	}

	auth.set(false)
	bus.Publish(events.TopicSessionChanged, domain.SessionAnonymous)
	if got := store.Cart(); got != nil {
		t.Fatalf("cart = %+v after anonymous transition, want nil", got)
	}
	if gw.callCount() != 1 {
		t.Fatal("anonymous transition must clear locally with no network call")
	}
}
