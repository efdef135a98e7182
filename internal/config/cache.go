package config

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Key strategies of the page cache.
const (
	CacheKeyRoute      = "route"       // matched route only, e.g. /Home/EntryComments/:id
	CacheKeyPath       = "path"        // request path without the query
	CacheKeyRouteQuery = "route_query" // request path and query, so ?page=N pages differ
)

// Page cache defaults.
const (
	defaultCacheTTL     = 30 * time.Second
	defaultCacheMaxBody = 1 << 20
)

// CacheConfig controls the Redis cache in front of the public blog pages
// (start page and entry pages).  Admin pages and anything a logged in
// admin requests are never cached.  With PurgeOnWrite a successful POST
// anywhere, such as a new comment or an edited entry, drops every cached
// page so visitors see the change on their next request.
type CacheConfig struct {
	Enabled      bool            // CACHE_ENABLED
	Methods      map[string]bool // CACHE_METHODS, safe methods only
	TTL          time.Duration   // CACHE_TTL
	KeyStrategy  string          // CACHE_KEY_STRATEGY, one of the CacheKey constants
	Prefix       string          // CACHE_PREFIX of every Redis key
	MaxBodyBytes int             // CACHE_MAX_BODY_BYTES, larger pages are served but not stored
	PurgeOnWrite bool            // CACHE_PURGE_ON_WRITE
}

// LoadCacheConfig reads the CACHE_* variables.  Malformed values fall
// back to the defaults; they never stop the server from starting.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		Methods:      cacheMethods(getenv("CACHE_METHODS", http.MethodGet)),
		TTL:          defaultCacheTTL,
		KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", CacheKeyRouteQuery)),
		Prefix:       getenv("CACHE_PREFIX", "blogcache"),
		MaxBodyBytes: defaultCacheMaxBody,
		PurgeOnWrite: getenv("CACHE_PURGE_ON_WRITE", "true") == "true",
	}
	if d, err := time.ParseDuration(getenv("CACHE_TTL", "")); err == nil && d > 0 {
		cfg.TTL = d
	}
	if n, err := strconv.Atoi(getenv("CACHE_MAX_BODY_BYTES", "")); err == nil && n > 0 {
		cfg.MaxBodyBytes = n
	}
	switch cfg.KeyStrategy {
	case CacheKeyRoute, CacheKeyPath, CacheKeyRouteQuery:
	default:
		cfg.KeyStrategy = CacheKeyRouteQuery
	}
	return cfg
}

// cacheMethods parses a comma separated method list.  Only GET and HEAD
// are kept; a page produced by a POST is never replayed.
func cacheMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range parseList(s) {
		switch p = strings.ToUpper(p); p {
		case http.MethodGet, http.MethodHead:
			m[p] = true
		}
	}
	if len(m) == 0 {
		m[http.MethodGet] = true
	}
	return m
}
