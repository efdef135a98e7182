package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-system/internal/config"
)

func newCacheServer(t *testing.T, loggedIn bool) (*echo.Echo, *redis.Client, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "blogcache",
		MaxBodyBytes: 1 << 20,
		PurgeOnWrite: true,
	}
	hits := new(int)
	e := echo.New()
	e.Use(PurgeOnWrite(cfg, rdb, discard))
	cache := NewRedisCache(cfg, rdb, func(echo.Context) bool { return loggedIn }, discard)
	e.GET("/Home/Index", func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusOK, echo.Map{"page": c.QueryParam("page"), "n": *hits})
	}, cache)
	e.POST("/Home/EntryComments/:id", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"success": true})
	})
	e.POST("/Home/Fail", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nope"})
	})
	return e, rdb, hits
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRedisCache_HitAfterMiss(t *testing.T) {
	e, _, hits := newCacheServer(t, false)

	first := get(e, "/Home/Index?page=2")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get(e, "/Home/Index?page=2")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, *hits)

	third := get(e, "/Home/Index?page=3")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, *hits)
}

func TestRedisCache_BypassedWhenLoggedIn(t *testing.T) {
	e, _, hits := newCacheServer(t, true)
	get(e, "/Home/Index")
	rec := get(e, "/Home/Index")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *hits)
}

func TestPurgeOnWrite(t *testing.T) {
	e, rdb, hits := newCacheServer(t, false)
	get(e, "/Home/Index")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/Home/Fail", nil))
	assert.Equal(t, "HIT", get(e, "/Home/Index").Header().Get("X-Cache"), "failed writes keep the cache")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/Home/EntryComments/1", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	keys, err := rdb.Keys(context.Background(), "blogcache:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "MISS", get(e, "/Home/Index").Header().Get("X-Cache"))
	assert.Equal(t, 2, *hits)
}

func TestRedisCache_DisabledWithoutClient(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil, discard)
	called := false
	h := mw(func(echo.Context) error { called = true; return nil })
	e := echo.New()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	assert.True(t, called)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
