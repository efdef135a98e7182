package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultCookieName is used when NewManager receives an empty name.
const DefaultCookieName = "blog_session"

// ctxKey caches the session ID on the echo context once resolved, so a
// cookie issued earlier in the same request is visible to later readers.
const ctxKey = "session_id"

// Manager binds a Store to the session cookie of the current request.
type Manager struct {
	store  Store
	cookie string
}

func NewManager(store Store, cookieName string) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{store: store, cookie: cookieName}
}

// ID returns the session ID of the request, or "" when the browser has no
// valid session cookie.
func (m *Manager) ID(c echo.Context) string {
	if sid, ok := c.Get(ctxKey).(string); ok && sid != "" {
		return sid
	}
	ck, err := c.Cookie(m.cookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return ""
	}
	c.Set(ctxKey, ck.Value)
	return ck.Value
}

// Start returns the request's session ID, issuing a new cookie when needed.
func (m *Manager) Start(c echo.Context) string {
	if sid := m.ID(c); sid != "" {
		return sid
	}
	return m.issue(c)
}

func (m *Manager) issue(c echo.Context) string {
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     m.cookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ctxKey, sid)
	return sid
}

// Login discards the current session and stores userID in a fresh one.
func (m *Manager) Login(c echo.Context, userID uint64) error {
	ctx := c.Request().Context()
	if old := m.ID(c); old != "" {
		if err := m.store.Clear(ctx, old); err != nil {
			return err
		}
	}
	sid := m.issue(c)
	return m.store.Set(ctx, sid, UserIDKey, strconv.FormatUint(userID, 10))
}

// Logout clears the session and expires the cookie.
func (m *Manager) Logout(c echo.Context) error {
	sid := m.ID(c)
	c.SetCookie(&http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ctxKey, "")
	if sid == "" {
		return nil
	}
	return m.store.Clear(c.Request().Context(), sid)
}

// UserID returns the authenticated user's ID from the session.
func (m *Manager) UserID(c echo.Context) (uint64, bool, error) {
	v, ok, err := m.Get(c, UserIDKey)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, errors.New("session: malformed user id")
	}
	return id, true, nil
}

// IsLoggedIn reports whether the session carries a user ID. Callers must
// treat a non-nil error as "not logged in".
func (m *Manager) IsLoggedIn(c echo.Context) (bool, error) {
	_, ok, err := m.UserID(c)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Get reads key from the request's session without creating one.
func (m *Manager) Get(c echo.Context, key string) (string, bool, error) {
	sid := m.ID(c)
	if sid == "" {
		return "", false, nil
	}
	return m.store.Get(c.Request().Context(), sid, key)
}

// Set writes key, starting a session if the request has none.
func (m *Manager) Set(c echo.Context, key, value string) error {
	return m.store.Set(c.Request().Context(), m.Start(c), key, value)
}

// Delete removes key from the request's session.
func (m *Manager) Delete(c echo.Context, key string) error {
	sid := m.ID(c)
	if sid == "" {
		return nil
	}
	return m.store.Delete(c.Request().Context(), sid, key)
}
