package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// CatalogService is the storefront's view of categories and products. It
// holds no state: every method is one gateway call. Reads are valid without
// a session; the create/update/delete calls are admin-gated server-side.
type CatalogService struct {
	gw ports.Gateway
}

func NewCatalogService(gw ports.Gateway) *CatalogService {
	return &CatalogService{gw: gw}
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/categories", Out: &out})
	return out, err
}

func (s *CatalogService) Category(ctx context.Context, id int64) (*domain.Category, error) {
	var out domain.Category
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: fmt.Sprintf("/categories/%d", id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.Category, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Category
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPost, Path: "/categories", Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req domain.CategoryRequest) (*domain.Category, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Category
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPut, Path: fmt.Sprintf("/categories/%d", id), Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodDelete, Path: fmt.Sprintf("/categories/%d", id)})
}

func (s *CatalogService) Products(ctx context.Context, page, size int) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/products", Query: pageQuery(page, size), Out: &out})
	return out, err
}

func (s *CatalogService) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: fmt.Sprintf("/products/%d", id), Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int64, page, size int) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/category/%d", categoryID),
		Query:  pageQuery(page, size),
		Out:    &out,
	})
	return out, err
}

func (s *CatalogService) SearchProducts(ctx context.Context, keyword string, page, size int) (domain.Page[domain.Product], error) {
	q := pageQuery(page, size)
	q.Set("keyword", keyword)
	var out domain.Page[domain.Product]
	err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodGet, Path: "/products/search", Query: q, Out: &out})
	return out, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPost, Path: "/products", Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (*domain.Product, error) {
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodPut, Path: fmt.Sprintf("/products/%d", id), Body: req, Out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.gw.Call(ctx, ports.GatewayRequest{Method: http.MethodDelete, Path: fmt.Sprintf("/products/%d", id)})
}
