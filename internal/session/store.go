// Package session keeps per-browser state on the server. The browser only
// holds an opaque session ID in a cookie; values live in a Store and expire
// after a sliding idle timeout.
package session

import (
	"context"
	"time"
)

// UserIDKey holds the authenticated admin's ID as a decimal string. Its
// absence means the session is anonymous.
const UserIDKey = "UserID"

// DefaultIdleTimeout is how long a session survives without activity.
const DefaultIdleTimeout = 30 * time.Minute

// Store is a key/value store partitioned by session ID. Every successful
// read or write renews the session's idle timeout.
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
}
