package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

func conditionalContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/carts/"+uuid.New().String()+"/checkout", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestConditionalGate_UnwatchedBodySkipsGate(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	c, rec := conditionalContext(`{"note":"regular checkout"}`)
	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestConditionalGate_EmptyBodySkipsGate(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	c, rec := conditionalContext("")
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// Setting a watched field without credentials hits the full gate.
func TestConditionalGate_WatchedFieldRequiresAuth(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	c, _ := conditionalContext(`{"forceOverride":true}`)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// Even forceOverride:false counts: presence of the field is what gates, not
// its value.
func TestConditionalGate_WatchedFieldFalseStillGates(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	c, _ := conditionalContext(`{"forceOverride":false}`)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestConditionalGate_WatchedFieldWithGrant(t *testing.T) {
	codec := testCodec()
	identity := domain.Identity{UserUUID: uuid.New(), RoleUUID: uuid.New()}
	resolver := &stubResolver{sets: map[uuid.UUID]domain.PermissionSet{
		identity.RoleUUID: domain.NewPermissionSet([]domain.Grant{
			{Action: "POST", Route: "/carts/:uuid/checkout"},
		}),
	}}
	mw := ConditionalGate(codec, resolver, "/carts/:uuid/checkout", "forceOverride")

	c, rec := conditionalContext(`{"forceOverride":true}`)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+issueAccess(t, codec, identity))

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// Malformed JSON resolves towards authorization, never around it.
func TestConditionalGate_MalformedBodyGates(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	c, _ := conditionalContext(`{"forceOverride":`)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// The sniffed body must remain readable for the handler's bind.
func TestConditionalGate_BodyRestored(t *testing.T) {
	mw := ConditionalGate(testCodec(), &stubResolver{}, "/carts/:uuid/checkout", "forceOverride")

	body := `{"note":"keep me"}`
	c, _ := conditionalContext(body)
	handler := mw(func(c echo.Context) error {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(raw) != body {
			t.Fatalf("body not restored: %q", raw)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
