package middleware

import (
	"net/http"
	"strings"

	"github.com/greenworld/garden-backend/internal/auth"
	"github.com/greenworld/garden-backend/internal/repository"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

type AuthMiddleware struct {
	tokens *auth.TokenManager
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens *auth.TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth verifies the bearer token and resolves the authenticated user
// id into the request context. Blocked accounts are rejected even when their
// token has not expired yet.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		claims, err := m.tokens.Parse(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		user, err := m.users.FindByID(c.Request().Context(), claims.UserID)
		if err != nil || !user.IsActive {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		c.Set(userIDKey, user.ID)
		return next(c)
	}
}

// UserID returns the id resolved by RequireAuth, 0 when unauthenticated.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(userIDKey).(uint64)
	return id
}
