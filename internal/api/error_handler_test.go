package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

func handleError(t *testing.T, err error, env string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/devices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), env)(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, body
}

func TestHTTPErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"wrong token kind", domain.ErrTokenKind, http.StatusForbidden, "wrong token kind"},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden, "access denied"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
		{"device not found", domain.ErrDeviceNotFound, http.StatusNotFound, "device not found"},
		{"cart not found", domain.ErrCartNotFound, http.StatusNotFound, "cart not found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "resource conflict"},
		{"cart closed", domain.ErrCartClosed, http.StatusUnprocessableEntity, domain.ErrCartClosed.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := handleError(t, tc.err, "production")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if body["error"] != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body["error"])
			}
		})
	}
}

// Invalid credentials and invalid token must be byte-identical on the wire so
// the response gives away nothing about which check failed.
func TestHTTPErrorHandler_UniformUnauthorized(t *testing.T) {
	_, cred := handleError(t, domain.ErrInvalidCredentials, "production")
	_, token := handleError(t, domain.ErrInvalidToken, "production")

	if cred["error"] != token["error"] {
		t.Fatalf("401 messages differ: %q vs %q", cred["error"], token["error"])
	}
}

func TestHTTPErrorHandler_WrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrCartNotFound)
	rec, _ := handleError(t, wrapped, "production")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped sentinel, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := handleError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), "production")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "invalid payload" {
		t.Fatalf("unexpected message: %q", body["error"])
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	rec, body := handleError(t, errors.New("pg connection reset"), "production")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("production 500 must not leak detail: %q", body["error"])
	}

	_, dev := handleError(t, errors.New("pg connection reset"), "development")
	if !strings.Contains(dev["error"], "pg connection reset") {
		t.Fatalf("development 500 should carry detail: %q", dev["error"])
	}
}
