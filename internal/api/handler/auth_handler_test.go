package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	changePasswordFn func(ctx context.Context, in ports.ChangePasswordInput) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	return s.changePasswordFn(ctx, in)
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
			if in.Email != "alice@example.com" || in.Firstname != "Alice" || in.Address != "1 rue de Paris" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.BirthdayDate.Equal(time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected birthday: %v", in.BirthdayDate)
			}
			return &domain.Identity{ID: 3, Email: in.Email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/user/create",
		`{"email":" alice@example.com ","password":"secret-pass","firstname":"Alice","lastname":"Martin","birthday_date":"1990-04-02","adress":"1 rue de Paris"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 3 || resp.Message != "User created with success" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_ServiceError(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/user/create", `{"email":"bob@example.com","password":"secret-pass","firstname":"Bob","lastname":"Stone","birthday_date":"1985-01-12"}`)

	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidInput(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/user/create", "not-json")
	var he *echo.HTTPError
	if err := handler.Register(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/user/create", `{"email":"a@x.com","password":"secret-pass","firstname":"A","lastname":"B","birthday_date":"02/04/1990"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/user/create", `{"email":"nb@x.com","password":"secret-pass"}`)
	err := handler.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "firstname" {
		t.Fatalf("expected firstname ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Reason, "birthday_date is required") {
		t.Fatalf("expected birthday_date in reason, got %q", ve.Reason)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	exp := time.Date(2026, 5, 20, 9, 40, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresAt: exp}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/connect", `{"email":"alice@example.com","password":"secret"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || !resp.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrTooManyAttempts, errors.New("db down")} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
				return nil, want
			},
		}
		c, _ := newJSONContext(http.MethodPost, "/connect", `{"email":"alice@example.com","password":"bad"}`)
		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/connect", `{"email":"alice@example.com"}`)
	err := handler.Login(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Reason != "password is required" {
		t.Fatalf("expected password is required, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	var got ports.ChangePasswordInput
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, in ports.ChangePasswordInput) error {
			got = in
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/user/password",
		`{"email":"a@x.com","password":"old-pass","new_password":"new-pass-1","repeat_new_password":"new-pass-1"}`)
	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.NewPassword != "new-pass-1" || got.RepeatNewPassword != "new-pass-1" || got.Password != "old-pass" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestAuthHandler_Hello(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/hello", "")
	if err := NewAuthHandler(nil).Hello(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Hello World !") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
