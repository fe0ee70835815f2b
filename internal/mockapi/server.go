package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

// Server is the mock backing store API.
type Server struct {
	Echo  *echo.Echo
	Store *Store

	secret string
	log    zerolog.Logger
}

// New wires the echo instance with all routes registered. Call
// Echo.Start to serve, or hand Echo to httptest in tests.
func New(jwtSecret string, log zerolog.Logger) *Server {
	s := &Server{
		Echo:   echo.New(),
		Store:  NewStore(),
		secret: jwtSecret,
		log:    log.With().Str("component", "mockstore").Logger(),
	}

	e := s.Echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = s.errorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("mockstore"))

	auth := s.authMiddleware()
	admin := s.rbacMiddleware(domain.RoleAdmin)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echoprometheus.NewHandler())

	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)

	// Catalog reads are public; unauthenticated browsing is valid.
	e.GET("/categories", s.listCategories)
	e.GET("/categories/:id", s.getCategory)
	e.GET("/products", s.listProducts)
	e.GET("/products/:id", s.getProduct)
	e.GET("/products/category/:id", s.productsByCategory)
	e.GET("/products/search", s.searchProducts)

	e.POST("/categories", s.createCategory, auth, admin)
	e.PUT("/categories/:id", s.updateCategory, auth, admin)
	e.DELETE("/categories/:id", s.deleteCategory, auth, admin)
	e.POST("/products", s.createProduct, auth, admin)
	e.PUT("/products/:id", s.updateProduct, auth, admin)
	e.DELETE("/products/:id", s.deleteProduct, auth, admin)
	e.POST("/upload", s.upload, auth, admin)

	e.GET("/cart", s.getCart, auth)
	e.POST("/cart/items", s.addCartItem, auth)
	e.PUT("/cart/items/:id", s.updateCartLine, auth)
	e.DELETE("/cart/items/:id", s.removeCartLine, auth)
	e.DELETE("/cart/clear", s.clearCart, auth)

	e.POST("/orders", s.createOrder, auth)
	e.GET("/orders", s.listOrders, auth)
	e.GET("/orders/:id", s.getOrder, auth)

	e.GET("/users/:id", s.getUser, auth)
	e.GET("/users", s.listUsers, auth, admin)
	e.PUT("/users/:id", s.updateUser, auth, admin)
	e.DELETE("/users/:id", s.deleteUser, auth, admin)

	e.GET("/admin/orders", s.listAllOrders, auth, admin)
	e.PUT("/admin/orders/:id/status", s.updateOrderStatus, auth, admin)
	e.GET("/admin/analytics/sales", s.salesAnalytics, auth, admin)

	return s
}

// errorHandler renders the canonical {"error": ...} envelope and maps known
// domain errors to deterministic status codes.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := s.resolveError(err, c)
	_ = c.JSON(code, map[string]string{"error": msg})
}

func (s *Server) resolveError(err error, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCartLineNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	}

	s.log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, "internal server error"
}

// echoValidator wraps go-playground/validator so echo can call
// c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

func newValidator() *echoValidator {
	return &echoValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
