package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reflectlabs/reflective-tutor/pkg/jwt"
)

const (
	// StudentIDKey is the echo context key holding the authenticated student.
	StudentIDKey = "student_id"

	// RoleKey is the echo context key holding the token's role claim.
	RoleKey = "role"
)

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets "student_id" (uuid.UUID) and "role" into Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(StudentIDKey, claims.StudentID)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}

// StudentID retrieves the authenticated student from the Echo context.
func StudentID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(StudentIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func extractToken(c echo.Context) string {
	// Try Authorization header first
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
