package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ContextUserID is the echo context key under which AccessGate stores the
// logged in user's ID (uint64).
const ContextUserID = "user_id"

// UserID returns the ID stored by AccessGate, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok
}

// actor names the requester for logs: the user ID or "guest".
func actor(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
