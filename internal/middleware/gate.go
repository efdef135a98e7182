package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/service"
)

// AccessDeniedPath is where unauthenticated visitors of protected pages are sent.
const AccessDeniedPath = "/Home/AccessDenied"

// Authenticator resolves the logged in user of a request.
type Authenticator interface {
	UserID(c echo.Context) (uint64, bool, error)
}

// AccessGate rejects requests under any of prefixes unless the session
// belongs to a logged in user. Rejected requests get 401 and a Location
// header pointing at AccessDeniedPath on the request's own scheme and host.
// Errors while reading the session count as not logged in.
//
// Register it with e.Pre so it runs before routing and covers every
// method and unknown path under a protected prefix.
func AccessGate(prefixes []string, auth Authenticator, log *slog.Logger) echo.MiddlewareFunc {
	prefixes = append([]string(nil), prefixes...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			prefix, ok := protectedPrefix(prefixes, c.Request().URL.Path)
			if !ok {
				return next(c)
			}
			id, loggedIn, err := auth.UserID(c)
			if err != nil {
				log.WarnContext(c.Request().Context(), "session lookup failed, denying access",
					"path", c.Request().URL.Path, "err", err)
				loggedIn = false
			}
			if !loggedIn {
				log.InfoContext(c.Request().Context(), "access denied",
					"path", c.Request().URL.Path, "area", prefix, "err", service.ErrAuthorization)
				return deny(c, prefix)
			}
			c.Set(ContextUserID, id)
			return next(c)
		}
	}
}

// protectedPrefix returns the first prefix path starts with. Matching is
// case-sensitive.
func protectedPrefix(prefixes []string, path string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return p, true
		}
	}
	return "", false
}

func deny(c echo.Context, prefix string) error {
	r := c.Request()
	c.Response().Header().Set(echo.HeaderLocation, c.Scheme()+"://"+r.Host+AccessDeniedPath)
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access denied", "area": prefix})
}
