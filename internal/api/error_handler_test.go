package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"expired", fmt.Errorf("%w: exp", domain.ErrTokenExpired), http.StatusUnauthorized, "Expired token"},
		{"malformed", domain.ErrTokenMalformed, http.StatusUnauthorized, "Invalid token"},
		{"missing header", echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated"), http.StatusUnauthorized, "Not authenticated"},
		{"profile update denied", &domain.AccessDeniedError{Action: domain.ActionUpdateProfile, Reason: "Not allowed to update your role"}, http.StatusUnauthorized, "Not allowed to update your role"},
		{"hr create denied", &domain.AccessDeniedError{Action: domain.ActionCreateHRRequest, Reason: "You are not allowed to add request rh"}, http.StatusBadRequest, "You are not allowed to add request rh"},
		{"validation", fmt.Errorf("register: %w", &domain.ValidationError{Field: "email", Reason: "Too long email adress"}), http.StatusBadRequest, "Too long email adress"},
		{"email taken", fmt.Errorf("update: %w", domain.ErrEmailTaken), http.StatusConflict, "Email already taken"},
		{"closed", domain.ErrHRRequestClosed, http.StatusConflict, "Request RH is closed"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"hr not found", fmt.Errorf("update hr request: %w", domain.ErrHRRequestNotFound), http.StatusNotFound, "Request RH not found"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many login attempts"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}
