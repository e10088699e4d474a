package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/api/metrics"
	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// ClaimsKey is the echo context key holding the caller's domain.SessionClaims.
const ClaimsKey = "claims"

// Auth validates the bearer token and injects the session claims into the
// context. Token errors are returned as-is for the HTTP error handler.
func Auth(validator ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.SessionValidationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.SessionValidationsTotal.WithLabelValues("malformed").Inc()
				return domain.ErrTokenMalformed
			}

			claims, err := validator.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				result := "malformed"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.SessionValidationsTotal.WithLabelValues(result).Inc()
				return err
			}

			metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
