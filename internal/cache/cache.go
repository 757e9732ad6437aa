// Package cache holds short-lived per-user results (resolved enrollment
// views) so repeated reads within a session do not fan out to the backend
// services again. Entries are invalidated by the writers that change them.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// Key identifies one cached result: the view of one resource kind for one
// user.
type Key struct {
	UserID domain.RecordID
	Kind   domain.ResourceKind
}

func (k Key) String() string { return fmt.Sprintf("%s:%s", k.UserID, k.Kind) }

// Store is a TTL cache of V values. Implementations are safe for concurrent
// use. Reads never fail: a backend error is reported as a miss.
type Store[V any] interface {
	// Get returns the value for key, or ok=false on a miss or expiry.
	Get(ctx context.Context, key Key) (v V, ok bool)
	// Set stores v for key. A non-positive ttl uses the store default.
	Set(ctx context.Context, key Key, v V, ttl time.Duration)
	// Invalidate drops key.
	Invalidate(ctx context.Context, key Key)
	// InvalidateUser drops every key of one user.
	InvalidateUser(ctx context.Context, user domain.RecordID)
	// Purge drops everything.
	Purge(ctx context.Context)
}
