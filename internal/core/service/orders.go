package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// OrderService places and reads orders. Checkout itself stops at order
// creation; payment is out of scope for this client.
type OrderService struct {
	gw ports.Gateway
}

func NewOrderService(gw ports.Gateway) *OrderService {
	return &OrderService{gw: gw}
}

// Create places an order from the server-side cart contents.
func (s *OrderService) Create(ctx context.Context, shippingAddress string) (*domain.Order, error) {
	req := domain.CreateOrderRequest{ShippingAddress: shippingAddress}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Order
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPost, Path: "/orders", Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the current user's orders.
func (s *OrderService) List(ctx context.Context, page, size int) (domain.Page[domain.Order], error) {
	var out domain.Page[domain.Order]
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/orders", Query: pageQuery(page, size), Out: &out})
	return out, err
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: fmt.Sprintf("/orders/%d", id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll returns every order, optionally filtered by status. Admin only.
func (s *OrderService) ListAll(ctx context.Context, page, size int, status domain.OrderStatus) (domain.Page[domain.Order], error) {
	q := pageQuery(page, size)
	if status != "" {
		q.Set("status", string(status))
	}
	var out domain.Page[domain.Order]
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/admin/orders", Query: q, Out: &out})
	return out, err
}

// UpdateStatus advances an order through its lifecycle. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, req domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Order
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/admin/orders/%d/status", id),
		Body:   req,
		Out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
