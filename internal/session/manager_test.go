package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestManager_NoCookieIsAnonymous(t *testing.T) {
	m := NewManager(NewMemoryStore(0), "")
	c, rec := newContext()

	ok, err := m.IsLoggedIn(c)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.ID(c))
	assert.Empty(t, rec.Result().Cookies(), "reading must not create a session")
}

func TestManager_LoginRotatesSession(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, "sid")
	old := "6f1c1b3e-6c52-4c39-9a52-5b7a5d4c2f10"
	require.NoError(t, store.Set(context.Background(), old, "token", "abc"))

	c, rec := newContext(&http.Cookie{Name: "sid", Value: old})
	require.NoError(t, m.Login(c, 42))

	ck := responseCookie(t, rec, "sid")
	assert.NotEqual(t, old, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	_, ok, _ := store.Get(context.Background(), old, "token")
	assert.False(t, ok, "old session is cleared")

	// next request presents the new cookie
	c2, _ := newContext(&http.Cookie{Name: "sid", Value: ck.Value})
	id, ok, err := m.UserID(c2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}

func TestManager_Logout(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, "sid")
	sid := "6f1c1b3e-6c52-4c39-9a52-5b7a5d4c2f10"
	require.NoError(t, store.Set(context.Background(), sid, UserIDKey, "1"))

	c, rec := newContext(&http.Cookie{Name: "sid", Value: sid})
	require.NoError(t, m.Logout(c))
	assert.Equal(t, -1, responseCookie(t, rec, "sid").MaxAge)

	c2, _ := newContext(&http.Cookie{Name: "sid", Value: sid})
	ok, err := m.IsLoggedIn(c2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_IgnoresForgedCookie(t *testing.T) {
	m := NewManager(NewMemoryStore(0), "sid")
	c, _ := newContext(&http.Cookie{Name: "sid", Value: "../../etc/passwd"})
	assert.Empty(t, m.ID(c))
}

func TestManager_SetStartsSession(t *testing.T) {
	m := NewManager(NewMemoryStore(0), "sid")
	c, rec := newContext()
	require.NoError(t, m.Set(c, "token", "abc"))
	sid := responseCookie(t, rec, "sid").Value

	v, ok, err := m.Get(c, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, sid, m.ID(c))

	require.NoError(t, m.Delete(c, "token"))
	_, ok, _ = m.Get(c, "token")
	assert.False(t, ok)
}

type brokenStore struct{ Store }

func (brokenStore) Get(context.Context, string, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func TestManager_StoreErrorIsReported(t *testing.T) {
	m := NewManager(brokenStore{}, "sid")
	c, _ := newContext(&http.Cookie{Name: "sid", Value: "6f1c1b3e-6c52-4c39-9a52-5b7a5d4c2f10"})
	ok, err := m.IsLoggedIn(c)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestManager_MalformedUserID(t *testing.T) {
	store := NewMemoryStore(0)
	sid := "6f1c1b3e-6c52-4c39-9a52-5b7a5d4c2f10"
	require.NoError(t, store.Set(context.Background(), sid, UserIDKey, "admin"))
	m := NewManager(store, "sid")
	c, _ := newContext(&http.Cookie{Name: "sid", Value: sid})
	ok, err := m.IsLoggedIn(c)
	assert.Error(t, err)
	assert.False(t, ok)
}
