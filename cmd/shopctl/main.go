// Command shopctl is a command-line storefront over the client core. It
// stands in for the UI: every subcommand is a thin call into the stores and
// catalog/order clients, and the session survives between invocations via
// the configured vault.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/service"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/config"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/events"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/gateway"
	"github.com/Bingusala/rosy-glow/internal/infrastructure/vault"
	"github.com/Bingusala/rosy-glow/pkg/logger"
)

type app struct {
	sessions  *service.SessionStore
	cart      *service.CartStore
	catalog   *service.CatalogService
	orders    *service.OrderService
	users     *service.UserService
	analytics *service.AnalyticsService
	uploads   *service.UploadService
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	bus := events.New()
	sessionVault, err := vault.Open(ctx, cfg.Vault, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open session vault")
	}

	gw := gateway.New(cfg.BaseURL, cfg.Timeout, bus, log)
	sessions := service.NewSessionStore(gw, sessionVault, bus, log)
	gw.Bind(sessions)

	cart, err := service.NewCartStore(gw, sessions, bus, log)
	if err != nil {
		log.Fatal().Err(err).Msg("wire cart store")
	}

	// The one cross-cutting UI reaction: any forced logout anywhere sends
	// the user back to the entry point.
	_ = bus.Subscribe(events.TopicSessionInvalidated, func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})

	sessions.Restore(ctx)

	a := &app{
		sessions:  sessions,
		cart:      cart,
		catalog:   service.NewCatalogService(gw),
		orders:    service.NewOrderService(gw),
		users:     service.NewUserService(gw),
		analytics: service.NewAnalyticsService(gw),
		uploads:   service.NewUploadService(gw),
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: shopctl login <username> <password>")
		}
		identity, err := a.sessions.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", identity.Username, strings.Join(identity.Roles, ", "))
		return nil

	case "register":
		if len(args) < 5 {
			return fmt.Errorf("usage: shopctl register <username> <email> <password> <full name...>")
		}
		identity, err := a.sessions.Register(ctx, domain.RegisterRequest{
			Username: args[1],
			Email:    args[2],
			Password: args[3],
			FullName: strings.Join(args[4:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Printf("welcome, %s\n", identity.FullName)
		return nil

	case "logout":
		a.sessions.Logout(ctx)
		fmt.Println("logged out")
		return nil

	case "whoami":
		snap := a.sessions.Session()
		if snap.Identity == nil {
			fmt.Println("anonymous")
			return nil
		}
		fmt.Printf("%s <%s> roles=%s admin=%v\n",
			snap.Identity.Username, snap.Identity.Email, strings.Join(snap.Identity.Roles, ","), a.sessions.IsAdmin())
		return nil

	case "categories":
		cats, err := a.catalog.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%3d  %-20s %3d products  %s\n", c.ID, c.Name, c.ProductCount, c.Description)
		}
		return nil

	case "products":
		page := 0
		if len(args) > 1 {
			page, _ = strconv.Atoi(args[1])
		}
		res, err := a.catalog.Products(ctx, page, 10)
		if err != nil {
			return err
		}
		printProducts(res)
		return nil

	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: shopctl search <keyword>")
		}
		res, err := a.catalog.SearchProducts(ctx, strings.Join(args[1:], " "), 0, 10)
		if err != nil {
			return err
		}
		printProducts(res)
		return nil

	case "cart":
		return a.runCart(ctx, args[1:])

	case "order":
		return a.runOrder(ctx, args[1:])

	case "admin":
		return a.runAdmin(ctx, args[1:])

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		if err := a.cart.Refresh(ctx); err != nil {
			return err
		}
		cart := a.cart.Cart()
		if cart == nil || len(cart.Lines) == 0 {
			fmt.Println("cart is empty")
			return nil
		}
		for _, l := range cart.Lines {
			fmt.Printf("%3d  %-24s x%-3d @ %7.2f = %8.2f\n", l.ID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
		}
		fmt.Printf("total: %.2f (%d items)\n", cart.TotalAmount, a.cart.Count())
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: shopctl cart add <productID> [qty]")
		}
		productID, _ := strconv.ParseInt(args[1], 10, 64)
		qty := 1
		if len(args) > 2 {
			qty, _ = strconv.Atoi(args[2])
		}
		return a.cart.Add(ctx, productID, qty)
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: shopctl cart set <lineID> <qty>")
		}
		lineID, _ := strconv.ParseInt(args[1], 10, 64)
		qty, _ := strconv.Atoi(args[2])
		return a.cart.SetQuantity(ctx, lineID, qty)
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl cart rm <lineID>")
		}
		lineID, _ := strconv.ParseInt(args[1], 10, 64)
		return a.cart.Remove(ctx, lineID)
	case "clear":
		return a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) runOrder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "place":
		if len(args) < 2 {
			return fmt.Errorf("usage: shopctl order place <shipping address...>")
		}
		order, err := a.orders.Create(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("order %d placed, total %.2f\n", order.ID, order.TotalAmount)
		return a.cart.Refresh(ctx)
	case "list":
		res, err := a.orders.List(ctx, 0, 10)
		if err != nil {
			return err
		}
		for _, o := range res.Content {
			fmt.Printf("%3d  %s  %-10s %8.2f\n", o.ID, o.OrderDate.Format("2006-01-02"), o.Status, o.TotalAmount)
		}
		return nil
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl order show <id>")
		}
		id, _ := strconv.ParseInt(args[1], 10, 64)
		order, err := a.orders.Get(ctx, id)
		if err != nil {
			return err
		}
		tracking := "-"
		if order.TrackingNumber != nil {
			tracking = *order.TrackingNumber
		}
		fmt.Printf("order %d  %s  tracking %s  ship to %s\n", order.ID, order.Status, tracking, order.ShippingAddress)
		for _, l := range order.Lines {
			fmt.Printf("  %-24s x%-3d = %8.2f\n", l.ProductName, l.Quantity, l.Subtotal)
		}
		return nil
	default:
		return fmt.Errorf("unknown order command %q", args[0])
	}
}

func (a *app) runAdmin(ctx context.Context, args []string) error {
	if !a.sessions.IsAdmin() {
		return fmt.Errorf("admin commands require an admin session")
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: shopctl admin <orders|status|users|sales|upload>")
	}
	switch args[0] {
	case "orders":
		status := domain.OrderStatus("")
		if len(args) > 1 {
			status = domain.OrderStatus(args[1])
		}
		res, err := a.orders.ListAll(ctx, 0, 20, status)
		if err != nil {
			return err
		}
		for _, o := range res.Content {
			fmt.Printf("%3d  user %-3d %-10s %8.2f\n", o.ID, o.UserID, o.Status, o.TotalAmount)
		}
		return nil
	case "status":
		if len(args) < 3 {
			return fmt.Errorf("usage: shopctl admin status <orderID> <status> [tracking]")
		}
		id, _ := strconv.ParseInt(args[1], 10, 64)
		req := domain.UpdateOrderStatusRequest{Status: domain.OrderStatus(args[2])}
		if len(args) > 3 {
			req.TrackingNumber = args[3]
		}
		order, err := a.orders.UpdateStatus(ctx, id, req)
		if err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", order.ID, order.Status)
		return nil
	case "users":
		res, err := a.users.List(ctx, 0, 20)
		if err != nil {
			return err
		}
		for _, u := range res.Content {
			fmt.Printf("%3d  %-16s %-28s roles=%s active=%v\n", u.ID, u.Username, u.Email, strings.Join(u.Roles, ","), u.Active)
		}
		return nil
	case "sales":
		start, end := "", ""
		if len(args) > 2 {
			start, end = args[1], args[2]
		}
		report, err := a.analytics.Sales(ctx, start, end)
		if err != nil {
			return err
		}
		fmt.Printf("orders %d, revenue %.2f, average %.2f\n", report.TotalOrders, report.TotalSales, report.AverageOrderValue)
		for _, p := range report.TopSellingProducts {
			fmt.Printf("  %-24s sold %-4d revenue %8.2f\n", p.ProductName, p.TotalQuantitySold, p.TotalRevenue)
		}
		return nil
	case "upload":
		if len(args) != 2 {
			return fmt.Errorf("usage: shopctl admin upload <image path>")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}
		url, err := a.uploads.UploadImage(ctx, filepath.Base(args[1]), info.Size(), f)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func printProducts(res domain.Page[domain.Product]) {
	for _, p := range res.Content {
		fmt.Printf("%3d  %-24s %8.2f  %-12s stock=%d\n", p.ID, p.Name, p.Price, p.CategoryName, p.StockQuantity)
	}
	fmt.Printf("page %d/%d (%d products)\n", res.Page+1, res.TotalPages, res.TotalElements)
}

func usage() {
	fmt.Println(`shopctl — Rosy Glow storefront client

  login <username> <password>
  register <username> <email> <password> <full name...>
  logout | whoami
  categories | products [page] | search <keyword>
  cart [show] | cart add <productID> [qty] | cart set <lineID> <qty> | cart rm <lineID> | cart clear
  order place <address...> | order list | order show <id>
  admin orders [status] | admin status <id> <status> [tracking] | admin users | admin sales [start end] | admin upload <path>`)
}
