// Package mockapi is an in-process implementation of the backing store API.
// The integration tests run the client against it, and cmd/mockstore serves
// it for local development. State lives in memory behind one mutex; the
// point is contract fidelity, not scale.
package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

type account struct {
	domain.Identity
	passwordHash string
}

// Store holds the mock server's state.
type Store struct {
	mu         sync.Mutex
	nextUserID int64
	nextCatID  int64
	nextProdID int64
	nextLineID int64
	nextOrdID  int64

	users      map[int64]*account
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
	carts      map[int64]*domain.Cart // keyed by user id
	orders     map[int64]*domain.Order
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*account),
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
		carts:      make(map[int64]*domain.Cart),
		orders:     make(map[int64]*domain.Order),
	}
}

// Seed loads an admin account and a small demo catalog.
func (s *Store) Seed() {
	admin, err := s.CreateUser(domain.RegisterRequest{
		Username: "admin",
		Email:    "admin@rosyglow.shop",
		Password: "admin123",
		FullName: "Store Administrator",
	})
	if err == nil {
		s.mu.Lock()
		s.users[admin.ID].Roles = []string{domain.RoleCustomer, domain.RoleAdmin}
		s.mu.Unlock()
	}

	skincare, _ := s.CreateCategory(domain.CategoryRequest{Name: "Skincare", Description: "Cleansers, serums and moisturisers"})
	makeup, _ := s.CreateCategory(domain.CategoryRequest{Name: "Makeup", Description: "Color cosmetics"})

	_, _ = s.CreateProduct(domain.ProductRequest{
		Name: "Rose Petal Serum", Description: "Hydrating facial serum", Price: 32.50,
		StockQuantity: 120, ImageURL: "/images/rose-serum.jpg", CategoryID: skincare.ID, Active: true,
	})
	_, _ = s.CreateProduct(domain.ProductRequest{
		Name: "Glow Cleanser", Description: "Gentle foaming cleanser", Price: 18.00,
		StockQuantity: 200, ImageURL: "/images/glow-cleanser.jpg", CategoryID: skincare.ID, Active: true,
	})
	_, _ = s.CreateProduct(domain.ProductRequest{
		Name: "Velvet Lipstick", Description: "Long-wear matte lipstick", Price: 21.00,
		StockQuantity: 80, ImageURL: "/images/velvet-lipstick.jpg", CategoryID: makeup.ID, Active: true,
	})
}

// --- users ---

func (s *Store) CreateUser(req domain.RegisterRequest) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == req.Username {
			return nil, domain.ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.nextUserID++
	acc := &account{
		Identity: domain.Identity{
			ID:          s.nextUserID,
			Username:    req.Username,
			Email:       req.Email,
			FullName:    req.FullName,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Roles:       []string{domain.RoleCustomer},
			Active:      true,
		},
		passwordHash: string(hash),
	}
	s.users[acc.ID] = acc
	out := acc.Identity
	return &out, nil
}

func (s *Store) Authenticate(username, password string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			if !u.Active {
				return nil, domain.ErrInvalidCredentials
			}
			if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
				return nil, domain.ErrInvalidCredentials
			}
			out := u.Identity
			return &out, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *Store) GetUser(id int64) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := u.Identity
	return &out, nil
}

func (s *Store) ListUsers(page, size int) domain.Page[domain.Identity] {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Identity, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u.Identity)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page, size)
}

func (s *Store) UpdateUser(id int64, req domain.UpdateUserRequest) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		u.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		u.Address = req.Address
	}
	if req.Roles != nil {
		u.Roles = append([]string(nil), req.Roles...)
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	out := u.Identity
	return &out, nil
}

func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.carts, id)
	return nil
}

// --- categories ---

func (s *Store) CreateCategory(req domain.CategoryRequest) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCatID++
	cat := &domain.Category{ID: s.nextCatID, Name: req.Name, Description: req.Description}
	s.categories[cat.ID] = cat
	out := *cat
	return &out, nil
}

func (s *Store) ListCategories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cc := *c
		cc.ProductCount = s.productCountLocked(c.ID)
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetCategory(id int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := *c
	out.ProductCount = s.productCountLocked(id)
	return &out, nil
}

func (s *Store) UpdateCategory(id int64, req domain.CategoryRequest) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = req.Name
	c.Description = req.Description
	for _, p := range s.products {
		if p.CategoryID == id {
			p.CategoryName = req.Name
		}
	}
	out := *c
	out.ProductCount = s.productCountLocked(id)
	return &out, nil
}

func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) productCountLocked(categoryID int64) int {
	n := 0
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// --- products ---

func (s *Store) CreateProduct(req domain.ProductRequest) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[req.CategoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	s.nextProdID++
	p := &domain.Product{
		ID:            s.nextProdID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		Active:        req.Active,
	}
	s.products[p.ID] = p
	out := *p
	return &out, nil
}

func (s *Store) GetProduct(id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (s *Store) ListProducts(page, size int, categoryID int64, keyword string) domain.Page[domain.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Product, 0, len(s.products))
	needle := strings.ToLower(keyword)
	for _, p := range s.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page, size)
}

func (s *Store) UpdateProduct(id int64, req domain.ProductRequest) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cat, ok := s.categories[req.CategoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
	p.ImageURL = req.ImageURL
	p.CategoryID = cat.ID
	p.CategoryName = cat.Name
	p.Active = req.Active
	out := *p
	return &out, nil
}

func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// --- cart ---

// cartLocked returns the user's cart, creating an empty one on first use.
func (s *Store) cartLocked(userID int64) *domain.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = &domain.Cart{ID: userID, UserID: userID, Lines: []domain.CartLine{}}
		s.carts[userID] = c
	}
	return c
}

func recomputeCart(c *domain.Cart) {
	total := 0.0
	for i := range c.Lines {
		c.Lines[i].Subtotal = c.Lines[i].UnitPrice * float64(c.Lines[i].Quantity)
		total += c.Lines[i].Subtotal
	}
	c.TotalAmount = total
}

func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append([]domain.CartLine{}, c.Lines...)
	return &out
}

func (s *Store) GetCart(userID int64) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.cartLocked(userID))
}

func (s *Store) AddCartItem(userID int64, req domain.AddToCartRequest) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[req.ProductID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	c := s.cartLocked(userID)
	merged := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.nextLineID++
		// Product name, image and price are snapshotted at add-time.
		c.Lines = append(c.Lines, domain.CartLine{
			ID:          s.nextLineID,
			ProductID:   p.ID,
			ProductName: p.Name,
			ImageURL:    p.ImageURL,
			UnitPrice:   p.Price,
			Quantity:    req.Quantity,
		})
	}
	recomputeCart(c)
	return cloneCart(c), nil
}

func (s *Store) UpdateCartLine(userID, lineID int64, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Quantity = quantity
			recomputeCart(c)
			return cloneCart(c), nil
		}
	}
	return nil, domain.ErrCartLineNotFound
}

func (s *Store) RemoveCartLine(userID, lineID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			recomputeCart(c)
			return cloneCart(c), nil
		}
	}
	return nil, domain.ErrCartLineNotFound
}

// ClearCart empties the cart. Clearing an already-empty cart succeeds.
func (s *Store) ClearCart(userID int64) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartLocked(userID)
	c.Lines = []domain.CartLine{}
	recomputeCart(c)
	return cloneCart(c)
}

// --- orders ---

func (s *Store) CreateOrder(userID int64, shippingAddress string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	if len(c.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	s.nextOrdID++
	order := &domain.Order{
		ID:              s.nextOrdID,
		UserID:          userID,
		OrderDate:       time.Now().UTC(),
		Status:          domain.OrderPending,
		ShippingAddress: shippingAddress,
	}
	for _, l := range c.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
		order.TotalAmount += l.Subtotal
	}
	s.orders[order.ID] = order

	// Placing an order consumes the cart.
	c.Lines = []domain.CartLine{}
	recomputeCart(c)

	out := cloneOrder(order)
	return out, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Lines = append([]domain.OrderLine{}, o.Lines...)
	if o.TrackingNumber != nil {
		t := *o.TrackingNumber
		out.TrackingNumber = &t
	}
	return &out
}

func (s *Store) GetOrder(userID, id int64, admin bool) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !admin && o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(userID int64, page, size int) domain.Page[domain.Order] {
	return s.listOrders(func(o *domain.Order) bool { return o.UserID == userID }, page, size)
}

func (s *Store) ListAllOrders(status domain.OrderStatus, page, size int) domain.Page[domain.Order] {
	return s.listOrders(func(o *domain.Order) bool { return status == "" || o.Status == status }, page, size)
}

func (s *Store) listOrders(keep func(*domain.Order) bool, page, size int) domain.Page[domain.Order] {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			all = append(all, *cloneOrder(o))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page, size)
}

func (s *Store) UpdateOrderStatus(id int64, req domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !o.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, o.Status, req.Status)
	}
	o.Status = req.Status
	if req.TrackingNumber != "" {
		t := req.TrackingNumber
		o.TrackingNumber = &t
	} else if req.Status == domain.OrderShipped && o.TrackingNumber == nil {
		t := "RG-" + uuid.NewString()[:8]
		o.TrackingNumber = &t
	}
	return cloneOrder(o), nil
}

// --- analytics ---

func (s *Store) SalesAnalytics(start, end time.Time) *domain.SalesAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &domain.SalesAnalytics{
		TopSellingProducts: []domain.TopProduct{},
		SalesByCategory:    []domain.CategorySales{},
	}
	byProduct := map[int64]*domain.TopProduct{}
	byCategory := map[int64]float64{}

	for _, o := range s.orders {
		if o.Status == domain.OrderCancelled {
			continue
		}
		if !start.IsZero() && o.OrderDate.Before(start) {
			continue
		}
		if !end.IsZero() && o.OrderDate.After(end) {
			continue
		}
		out.TotalOrders++
		out.TotalSales += o.TotalAmount
		for _, l := range o.Lines {
			tp, ok := byProduct[l.ProductID]
			if !ok {
				tp = &domain.TopProduct{ProductID: l.ProductID, ProductName: l.ProductName}
				byProduct[l.ProductID] = tp
			}
			tp.TotalQuantitySold += l.Quantity
			tp.TotalRevenue += l.Subtotal
			if p, ok := s.products[l.ProductID]; ok {
				byCategory[p.CategoryID] += l.Subtotal
			}
		}
	}

	if out.TotalOrders > 0 {
		out.AverageOrderValue = out.TotalSales / float64(out.TotalOrders)
	}
	for _, tp := range byProduct {
		out.TopSellingProducts = append(out.TopSellingProducts, *tp)
	}
	sort.Slice(out.TopSellingProducts, func(i, j int) bool {
		return out.TopSellingProducts[i].TotalRevenue > out.TopSellingProducts[j].TotalRevenue
	})
	for catID, sales := range byCategory {
		name := ""
		if c, ok := s.categories[catID]; ok {
			name = c.Name
		}
		out.SalesByCategory = append(out.SalesByCategory, domain.CategorySales{
			CategoryID: catID, CategoryName: name, TotalSales: sales,
		})
	}
	sort.Slice(out.SalesByCategory, func(i, j int) bool {
		return out.SalesByCategory[i].CategoryID < out.SalesByCategory[j].CategoryID
	})
	return out
}

func paginate[T any](all []T, page, size int) domain.Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(all)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	totalPages := (total + size - 1) / size
	return domain.Page[T]{
		Content:       append([]T{}, all[start:end]...),
		Page:          page,
		Size:          size,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Last:          page >= totalPages-1,
	}
}
