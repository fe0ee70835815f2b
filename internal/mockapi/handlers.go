package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/service"
)

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = 10
	}
	return page, size
}

// --- auth ---

func (s *Server) register(c echo.Context) error {
	var req domain.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := s.Store.CreateUser(req)
	if err != nil {
		return err
	}
	token, err := s.mintToken(identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, domain.AuthResponse{Token: token, TokenType: "Bearer", User: *identity})
}

func (s *Server) login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := s.Store.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}
	token, err := s.mintToken(identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.AuthResponse{Token: token, TokenType: "Bearer", User: *identity})
}

// --- categories ---

func (s *Server) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Store.ListCategories())
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	cat, err := s.Store.GetCategory(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) createCategory(c echo.Context) error {
	var req domain.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat, err := s.Store.CreateCategory(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req domain.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat, err := s.Store.UpdateCategory(id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteCategory(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- products ---

func (s *Server) listProducts(c echo.Context) error {
	page, size := pageParams(c)
	return c.JSON(http.StatusOK, s.Store.ListProducts(page, size, 0, ""))
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := s.Store.GetProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) productsByCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	page, size := pageParams(c)
	return c.JSON(http.StatusOK, s.Store.ListProducts(page, size, id, ""))
}

func (s *Server) searchProducts(c echo.Context) error {
	page, size := pageParams(c)
	return c.JSON(http.StatusOK, s.Store.ListProducts(page, size, 0, c.QueryParam("keyword")))
}

func (s *Server) createProduct(c echo.Context) error {
	var req domain.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := s.Store.CreateProduct(req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req domain.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := s.Store.UpdateProduct(id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteProduct(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- upload ---

func (s *Server) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if fh.Size > service.MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}
	// Content is accepted and discarded; the real pipeline lives elsewhere.
	url := "/images/" + uuid.NewString() + "-" + fh.Filename
	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}

// --- cart ---

func (s *Server) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Store.GetCart(callerID(c)))
}

func (s *Server) addCartItem(c echo.Context) error {
	var req domain.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cart, err := s.Store.AddCartItem(callerID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) updateCartLine(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req domain.UpdateCartLineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cart, err := s.Store.UpdateCartLine(callerID(c), id, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) removeCartLine(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	cart, err := s.Store.RemoveCartLine(callerID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) clearCart(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Store.ClearCart(callerID(c)))
}

// --- orders ---

func (s *Server) createOrder(c echo.Context) error {
	var req domain.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	order, err := s.Store.CreateOrder(callerID(c), req.ShippingAddress)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c echo.Context) error {
	page, size := pageParams(c)
	return c.JSON(http.StatusOK, s.Store.ListOrders(callerID(c), page, size))
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := s.Store.GetOrder(callerID(c), id, callerIsAdmin(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) listAllOrders(c echo.Context) error {
	page, size := pageParams(c)
	status := domain.OrderStatus(c.QueryParam("status"))
	return c.JSON(http.StatusOK, s.Store.ListAllOrders(status, page, size))
}

func (s *Server) updateOrderStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req domain.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	order, err := s.Store.UpdateOrderStatus(id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// --- users ---

func (s *Server) getUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	// Customers can only read their own profile.
	if id != callerID(c) && !callerIsAdmin(c) {
		return domain.ErrForbidden
	}
	identity, err := s.Store.GetUser(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

func (s *Server) listUsers(c echo.Context) error {
	page, size := pageParams(c)
	return c.JSON(http.StatusOK, s.Store.ListUsers(page, size))
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req domain.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	identity, err := s.Store.UpdateUser(id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteUser(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- analytics ---

func (s *Server) salesAnalytics(c echo.Context) error {
	var start, end time.Time
	if v := c.QueryParam("startDate"); v != "" {
		start, _ = time.Parse("2006-01-02", v)
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, _ = time.Parse("2006-01-02", v)
	}
	return c.JSON(http.StatusOK, s.Store.SalesAnalytics(start, end))
}
