package mockapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
	"github.com/Bingusala/rosy-glow/internal/core/service"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/gateway"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/vault"
	"github.com/Bingusala/rosy-glow/internal/mockapi"
)

// stack is a fully wired client against a live mock store, the same wiring
// the CLI performs at boot.
type stack struct {
	vault     *vault.MemoryVault
	bus       ports.Bus
	sessions  *service.SessionStore
	cart      *service.CartStore
	catalog   *service.CatalogService
	orders    *service.OrderService
	users     *service.UserService
	analytics *service.AnalyticsService
	uploads   *service.UploadService
}

func newStack(t *testing.T, baseURL string) *stack {
	t.Helper()

	bus := events.New()
	v := vault.NewMemory()
	gw := gateway.New(baseURL, 5*time.Second, bus, zerolog.Nop())
	sessions := service.NewSessionStore(gw, v, bus, zerolog.Nop())
	gw.Bind(sessions)
	cart, err := service.NewCartStore(gw, sessions, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}
	return &stack{
		vault:     v,
		bus:       bus,
		sessions:  sessions,
		cart:      cart,
		catalog:   service.NewCatalogService(gw),
		orders:    service.NewOrderService(gw),
		users:     service.NewUserService(gw),
		analytics: service.NewAnalyticsService(gw),
		uploads:   service.NewUploadService(gw),
	}
}

func newStore(t *testing.T) *httptest.Server {
	t.Helper()
	srv := mockapi.New("test-secret", zerolog.Nop())
	srv.Store.Seed()
	ts := httptest.NewServer(srv.Echo)
	t.Cleanup(ts.Close)
	return ts
}

func registerCustomer(t *testing.T, s *stack, username string) *domain.Identity {
	t.Helper()
	ident, err := s.sessions.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter22",
		FullName: "Test Customer",
		Address:  "12 Petal Lane",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return ident
}

func TestStorefront_FullCustomerFlow(t *testing.T) {
	ts := newStore(t)
	s := newStack(t, ts.URL)
	ctx := context.Background()

	s.sessions.Restore(ctx)
	if s.sessions.State() != domain.SessionAnonymous {
		t.Fatalf("fresh client state = %v", s.sessions.State())
	}

	// Catalog browsing works without a session.
	cats, err := s.catalog.Categories(ctx)
	if err != nil || len(cats) != 2 {
		t.Fatalf("categories = %v, err %v", cats, err)
	}
	page, err := s.catalog.Products(ctx, 0, 20)
	if err != nil || len(page.Content) != 3 {
		t.Fatalf("products = %d, err %v", len(page.Content), err)
	}
	found, err := s.catalog.SearchProducts(ctx, "lipstick", 0, 20)
	if err != nil || len(found.Content) != 1 || found.Content[0].Name != "Velvet Lipstick" {
		t.Fatalf("search = %+v, err %v", found.Content, err)
	}

	registerCustomer(t, s, "maria")
	if !s.sessions.IsAuthenticated() || s.sessions.IsAdmin() {
		t.Fatal("registered customer must be authenticated and not admin")
	}

	// Build a cart: two adds of the same product merge into one line.
	if err := s.cart.Add(ctx, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.cart.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if err := s.cart.Add(ctx, 3, 1); err != nil {
		t.Fatalf("add lipstick: %v", err)
	}
	cart := s.cart.Cart()
	if len(cart.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Lines))
	}
	var serumLine domain.CartLine
	for _, l := range cart.Lines {
		if l.ProductID == 1 {
			serumLine = l
		}
	}
	if serumLine.Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", serumLine.Quantity)
	}
	wantTotal := 3*32.50 + 21.00
	if cart.TotalAmount != wantTotal {
		t.Fatalf("total = %v, want %v", cart.TotalAmount, wantTotal)
	}

	if err := s.cart.SetQuantity(ctx, serumLine.ID, 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if s.cart.Count() != 3 {
		t.Fatalf("count = %d, want 3", s.cart.Count())
	}

	// Checkout consumes the server-side cart.
	order, err := s.orders.Create(ctx, "12 Petal Lane")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != domain.OrderPending || len(order.Lines) != 2 {
		t.Fatalf("order = %+v", order)
	}
	if order.TotalAmount != 2*32.50+21.00 {
		t.Fatalf("order total = %v", order.TotalAmount)
	}
	if err := s.cart.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.cart.Count() != 0 {
		t.Fatalf("cart after checkout = %d items", s.cart.Count())
	}

	// A second checkout with nothing in the cart is rejected.
	if _, err := s.orders.Create(ctx, "12 Petal Lane"); err == nil {
		t.Fatal("expected empty-cart rejection")
	}

	mine, err := s.orders.List(ctx, 0, 10)
	if err != nil || len(mine.Content) != 1 || mine.Content[0].ID != order.ID {
		t.Fatalf("order history = %+v, err %v", mine.Content, err)
	}

	s.sessions.Logout(ctx)
	if s.sessions.IsAuthenticated() || s.cart.Count() != 0 {
		t.Fatal("logout must drop the session and the cart")
	}
}

func TestStorefront_AdminFlow(t *testing.T) {
	ts := newStore(t)
	ctx := context.Background()

	// Customer places an order first.
	customer := newStack(t, ts.URL)
	registerCustomer(t, customer, "nadia")
	if err := customer.cart.Add(ctx, 2, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := customer.orders.Create(ctx, "5 Bloom St")
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	admin := newStack(t, ts.URL)
	if _, err := admin.sessions.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !admin.sessions.IsAdmin() {
		t.Fatal("seeded admin must carry the admin role")
	}

	all, err := admin.orders.ListAll(ctx, 0, 10, "")
	if err != nil || len(all.Content) != 1 {
		t.Fatalf("all orders = %+v, err %v", all.Content, err)
	}

	updated, err := admin.orders.UpdateStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: domain.OrderConfirmed})
	if err != nil || updated.Status != domain.OrderConfirmed {
		t.Fatalf("confirm: %+v, err %v", updated, err)
	}
	updated, err = admin.orders.UpdateStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: domain.OrderShipped})
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if updated.TrackingNumber == nil || !strings.HasPrefix(*updated.TrackingNumber, "RG-") {
		t.Fatalf("tracking = %v", updated.TrackingNumber)
	}

	// Moving backwards in the lifecycle is rejected.
	if _, err := admin.orders.UpdateStatus(ctx, order.ID, domain.UpdateOrderStatusRequest{Status: domain.OrderPending}); err == nil {
		t.Fatal("expected invalid transition rejection")
	}

	sales, err := admin.analytics.Sales(ctx, "", "")
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if sales.TotalSales != 2*18.00 || sales.TotalOrders != 1 {
		t.Fatalf("sales = %+v", sales)
	}

	url, err := admin.uploads.UploadImage(ctx, "swatch.png", 9, strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/images/") || !strings.HasSuffix(url, "-swatch.png") {
		t.Fatalf("upload url = %q", url)
	}

	users, err := admin.users.List(ctx, 0, 10)
	if err != nil || len(users.Content) != 2 {
		t.Fatalf("users = %+v, err %v", users.Content, err)
	}
}

func TestStorefront_CustomerCannotReachAdminSurface(t *testing.T) {
	ts := newStore(t)
	s := newStack(t, ts.URL)
	ctx := context.Background()
	registerCustomer(t, s, "petra")

	_, err := s.catalog.CreateCategory(ctx, domain.CategoryRequest{Name: "Fragrance"})
	if err == nil {
		t.Fatal("expected forbidden")
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("err = %v", err)
	}
	if !s.sessions.IsAuthenticated() {
		t.Fatal("a 403 must not tear down the session")
	}
}

func TestStorefront_SetQuantityZeroRemovesTheLine(t *testing.T) {
	ts := newStore(t)
	s := newStack(t, ts.URL)
	ctx := context.Background()
	registerCustomer(t, s, "lena")

	if err := s.cart.Add(ctx, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	lineID := s.cart.Cart().Lines[0].ID
	if err := s.cart.SetQuantity(ctx, lineID, 0); err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if s.cart.Count() != 0 {
		t.Fatalf("count = %d after quantity zero", s.cart.Count())
	}

	// The server agrees: a fresh fetch shows an empty cart.
	if err := s.cart.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(s.cart.Cart().Lines) != 0 {
		t.Fatal("server still holds the removed line")
	}
}

func TestStorefront_ClearIsIdempotent(t *testing.T) {
	ts := newStore(t)
	s := newStack(t, ts.URL)
	ctx := context.Background()
	registerCustomer(t, s, "olga")

	if err := s.cart.Add(ctx, 2, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.cart.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.cart.Clear(ctx); err != nil {
		t.Fatalf("clear of empty cart: %v", err)
	}
	if s.cart.Count() != 0 {
		t.Fatalf("count = %d", s.cart.Count())
	}
}

// newStackWithVault boots a client stack over an existing vault, the way a
// second process run picks up the previous run's persisted session.
func newStackWithVault(t *testing.T, baseURL string, v *vault.MemoryVault) *stack {
	t.Helper()

	bus := events.New()
	gw := gateway.New(baseURL, 5*time.Second, bus, zerolog.Nop())
	sessions := service.NewSessionStore(gw, v, bus, zerolog.Nop())
	gw.Bind(sessions)
	cart, err := service.NewCartStore(gw, sessions, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}
	return &stack{vault: v, bus: bus, sessions: sessions, cart: cart, orders: service.NewOrderService(gw)}
}

func TestStorefront_RestoreResumesPersistedSession(t *testing.T) {
	ts := newStore(t)
	ctx := context.Background()

	first := newStack(t, ts.URL)
	registerCustomer(t, first, "irene")
	if err := first.cart.Add(ctx, 3, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A new boot over the same vault comes up authenticated and pulls the
	// server-side cart without any login.
	second := newStackWithVault(t, ts.URL, first.vault)
	second.sessions.Restore(ctx)

	if second.sessions.State() != domain.SessionAuthenticated {
		t.Fatalf("state = %v", second.sessions.State())
	}
	if ident := second.sessions.Identity(); ident == nil || ident.Username != "irene" {
		t.Fatalf("identity = %+v", ident)
	}
	if second.cart.Count() != 2 {
		t.Fatalf("restored cart count = %d, want 2", second.cart.Count())
	}
}

func TestStorefront_StaleRestoredSessionCollapsesOnFirstUse(t *testing.T) {
	ts := newStore(t)
	s := newStack(t, ts.URL)
	ctx := context.Background()

	// A previous run persisted a token the server no longer accepts. Restore
	// optimistically trusts it; the cart refresh it triggers is the first
	// authorized request, its 401 collapses the session on the spot.
	err := s.vault.Store(ctx, domain.Credential{Token: "expired-token", Type: "Bearer"}, &domain.Identity{
		ID:       42,
		Username: "ghost",
		Roles:    []string{domain.RoleCustomer},
	})
	if err != nil {
		t.Fatalf("seed vault: %v", err)
	}

	s.sessions.Restore(ctx)

	if s.sessions.State() != domain.SessionAnonymous {
		t.Fatalf("state after rejected credential = %v", s.sessions.State())
	}
	if s.sessions.Identity() != nil {
		t.Fatal("identity must be dropped")
	}
	if s.cart.Count() != 0 {
		t.Fatal("cart must be dropped")
	}
	cred, ident, err := s.vault.Load(ctx)
	if err != nil || !cred.Empty() || ident != nil {
		t.Fatalf("vault not cleared: (%+v, %+v, %v)", cred, ident, err)
	}

	// Later authorized calls fail plainly; the session stays anonymous.
	if _, err := s.orders.List(ctx, 0, 10); err == nil || !domain.Unauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	// Logging in again works and repopulates everything.
	if _, err := s.sessions.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("relogin: %v", err)
	}
	if err := s.cart.Add(ctx, 1, 1); err != nil {
		t.Fatalf("add after relogin: %v", err)
	}
	if s.cart.Count() != 1 {
		t.Fatalf("count = %d", s.cart.Count())
	}
}
