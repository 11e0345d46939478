package ports

import (
	"context"
	"time"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// SessionStore keeps server-side login sessions keyed by an opaque id.
type SessionStore interface {
	// Create stores a new session for userID that expires after ttl.
	Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.Session, error)
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
