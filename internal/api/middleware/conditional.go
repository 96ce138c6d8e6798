package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/api/metrics"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// maxSniffBytes bounds how much body the conditional gate will buffer.
const maxSniffBytes = 1 << 20

// ConditionalGate authorizes a route only when one of watchedFields appears
// in the JSON request body. The default shape of the operation runs without
// authentication; any attempt to set a privileged field goes through the full
// gate. A body that cannot be parsed is treated as if it set a watched field:
// ambiguity resolves towards authorization, never around it.
func ConditionalGate(codec ports.TokenCodec, resolver ports.PermissionResolver, route string, watchedFields ...string) echo.MiddlewareFunc {
	gate := Gate(codec, resolver, route)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			watched, err := sniffBody(c, watchedFields)
			if err != nil {
				watched = true
			}
			if !watched {
				metrics.GateDecisionsTotal.WithLabelValues(route, "skipped").Inc()
				return next(c)
			}
			return gate(next)(c)
		}
	}
}

// sniffBody reports whether any watched field is present at the top level of
// the JSON body. The body is buffered and restored so the handler can still
// bind it.
func sniffBody(c echo.Context, watchedFields []string) (bool, error) {
	req := c.Request()
	if req.Body == nil {
		return false, nil
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxSniffBytes))
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return false, err
	}

	for _, field := range watchedFields {
		if _, ok := body[field]; ok {
			return true, nil
		}
	}
	return false, nil
}
