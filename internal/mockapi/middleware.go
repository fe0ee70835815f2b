package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

// mintToken issues the opaque-to-the-client bearer token for an identity.
func (s *Server) mintToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":      identity.ID,
		"username": identity.Username,
		"roles":    identity.Roles,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// authMiddleware validates the bearer token and injects the caller's id and
// roles into the request context. Any defect in the header or token yields
// the distinguished unauthorized status.
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(s.secret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			roles := []string{}
			if raw, ok := claims["roles"].([]any); ok {
				for _, r := range raw {
					if rs, ok := r.(string); ok {
						roles = append(roles, rs)
					}
				}
			}

			c.Set("userID", int64(sub))
			c.Set("roles", roles)
			return next(c)
		}
	}
}

// rbacMiddleware requires at least one of the given roles.
func (s *Server) rbacMiddleware(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]string)
			for _, r := range roles {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}

func callerID(c echo.Context) int64 {
	id, _ := c.Get("userID").(int64)
	return id
}

func callerIsAdmin(c echo.Context) bool {
	roles, _ := c.Get("roles").([]string)
	for _, r := range roles {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}
