package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated caller's id as a string, or "" when
// the request is anonymous.  Used by the "user" rate limit key strategy
// so that authenticated customers get a per-account bucket instead of
// sharing one per IP.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case string:
		return v
	default:
		return ""
	}
}
