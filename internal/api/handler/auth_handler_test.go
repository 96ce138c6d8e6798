package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/api/middleware"
	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (domain.TokenPair, *domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			pair := domain.TokenPair{AccessToken: "access123", RefreshToken: "refresh123"}
			return pair, &domain.User{UUID: uuid.New(), Username: "alice", RoleName: "admin"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "access123" || resp["refreshToken"] != "refresh123" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (domain.TokenPair, *domain.User, error) {
			return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)
	if err := handler.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (domain.TokenPair, *domain.User, error) {
			t.Fatalf("should not be called")
			return domain.TokenPair{}, nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/login", `{"username":"alice"}`)
	if err := handler.Login(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (domain.TokenPair, *domain.User, error) {
			t.Fatalf("should not be called")
			return domain.TokenPair{}, nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/login", "not-json")
	if err := handler.Login(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_FromBody(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (domain.TokenPair, error) {
			if token != "refresh123" {
				t.Fatalf("unexpected token: %s", token)
			}
			return domain.TokenPair{AccessToken: "access456", RefreshToken: "refresh456"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/refresh", `{"refreshToken":"refresh123"}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "access456" || resp["refreshToken"] != "refresh456" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestAuthHandler_Refresh_FromHeader(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (domain.TokenPair, error) {
			if token != "refresh123" {
				t.Fatalf("unexpected token: %s", token)
			}
			return domain.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/refresh", "")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer refresh123")
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (domain.TokenPair, error) {
			t.Fatalf("should not be called")
			return domain.TokenPair{}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/refresh", `{}`)
	if err := handler.Refresh(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	creator := uuid.New()
	role := uuid.New()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "bob" || input.RoleUUID != role {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.CreatedBy == nil || *input.CreatedBy != creator {
				t.Fatalf("expected created_by %s, got %v", creator, input.CreatedBy)
			}
			return &domain.User{UUID: uuid.New(), Username: input.Username, RoleUUID: input.RoleUUID}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"bob","password":"longenough","role":"` + role.String() + `"}`
	c, rec := newTestContext(http.MethodPost, "/register", body)
	c.Set(middleware.ContextUserUUID, creator)
	c.Set(middleware.ContextRoleUUID, uuid.New())

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

// Register without the gate's identity context is rejected, not defaulted.
func TestAuthHandler_Register_NoIdentity(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"bob","password":"longenough","role":"` + uuid.New().String() + `"}`
	c, rec := newTestContext(http.MethodPost, "/register", body)
	if err := handler.Register(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"bob","password":"short","role":"` + uuid.New().String() + `"}`
	c, rec := newTestContext(http.MethodPost, "/register", body)
	c.Set(middleware.ContextUserUUID, uuid.New())
	c.Set(middleware.ContextRoleUUID, uuid.New())

	if err := handler.Register(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
