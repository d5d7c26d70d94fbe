package middleware

// identity.go provides the user identity lookup shared by the
// rate-limit key builder. It reads the user_id value that JWTAuth
// stored in the context; unauthenticated requests are bucketed
// together as "anon".

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable string identity for rate limiting.
// JWTAuth stores the numeric subject claim as a float64 (JSON
// numbers), so the value is normalized through fmt.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64, int64, int:
		return fmt.Sprint(t)
	}
	return "anon"
}
