package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// AnalyticsService reads the admin sales report.
type AnalyticsService struct {
	gw ports.Gateway
}

func NewAnalyticsService(gw ports.Gateway) *AnalyticsService {
	return &AnalyticsService{gw: gw}
}

// Sales returns the sales report, optionally bounded by ISO dates.
func (s *AnalyticsService) Sales(ctx context.Context, startDate, endDate string) (*domain.SalesAnalytics, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}

	var out domain.SalesAnalytics
	if err := s.gw.Call(ctx, ports.GatewayRequest{
		Method: http.MethodGet,
		Path:   "/admin/analytics/sales",
		Query:  q,
		Out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
