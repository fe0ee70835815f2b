package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// UserService is the admin user-management surface.
type UserService struct {
	gw ports.Gateway
}

func NewUserService(gw ports.Gateway) *UserService {
	return &UserService{gw: gw}
}

func (s *UserService) List(ctx context.Context, page, size int) (domain.Page[domain.Identity], error) {
	var out domain.Page[domain.Identity]
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/users", Query: pageQuery(page, size), Out: &out})
	return out, err
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.Identity, error) {
	var out domain.Identity
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: fmt.Sprintf("/users/%d", id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.Identity, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Identity
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPut, Path: fmt.Sprintf("/users/%d", id), Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodDelete, Path: fmt.Sprintf("/users/%d", id)})
}
