package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/api/metrics"
	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// Context keys populated by the gate for downstream handlers.
const (
	ContextUserUUID = "user_uuid"
	ContextRoleUUID = "role_uuid"
)

// Gate authorizes one canonical route. It is attached per route at
// registration time, so the permission check always runs against the route
// pattern ("/devices/:uuid"), never the concrete request path.
//
// Pipeline per request:
//
//	extract bearer → verify access token → resolve role permissions →
//	check (method, route) → inject identity and continue
//
// Failure mapping: no/invalid/expired token → 401; wrong-kind token → 403;
// any resolver failure → 403 (fail-closed); grant absent → 403.
func Gate(codec ports.TokenCodec, resolver ports.PermissionResolver, route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authenticate(c, codec)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues(route, "unauthenticated").Inc()
				return err
			}

			set, err := resolver.Resolve(c.Request().Context(), domain.RoleByUUID(identity.RoleUUID))
			if err != nil {
				// Resolver failures, an unknown role included, must be
				// indistinguishable from a plain denial to the client.
				metrics.GateDecisionsTotal.WithLabelValues(route, "denied").Inc()
				return domain.ErrAccessDenied
			}

			if !set.Allows(c.Request().Method, route) {
				metrics.GateDecisionsTotal.WithLabelValues(route, "denied").Inc()
				return domain.ErrAccessDenied
			}

			metrics.GateDecisionsTotal.WithLabelValues(route, "authorized").Inc()
			c.Set(ContextUserUUID, identity.UserUUID)
			c.Set(ContextRoleUUID, identity.RoleUUID)
			return next(c)
		}
	}
}

// authenticate extracts and verifies the bearer token as an access token.
func authenticate(c echo.Context, codec ports.TokenCodec) (domain.Identity, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return codec.Verify(parts[1], domain.TokenAccess)
}
