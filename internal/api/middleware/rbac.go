package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
)

// Authorize rejects the request early when the caller's role alone cannot
// perform action. It is meant for role-only actions such as department
// management; resource-dependent checks stay in the services. Must run
// after Auth.
func Authorize(engine *policy.Engine, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(domain.SessionClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			if err := engine.Decide(claims, action, policy.Resource{}).Err(action); err != nil {
				return err
			}
			return next(c)
		}
	}
}
