package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/api/middleware"
	"github.com/protorh/protorh-api/internal/core/domain"
)

// ctxClaims returns the session claims injected by the Auth middleware.
// A missing value means the route was mounted without it.
func ctxClaims(c echo.Context) (domain.SessionClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(domain.SessionClaims)
	if !ok || claims.SubjectID <= 0 {
		return domain.SessionClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return claims, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64(name, &id).BindError(); err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Reason: "Invalid " + name}
	}
	return id, nil
}
