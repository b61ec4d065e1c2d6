// Package sessions declares the server-side repository contract for
// login sessions kept in persistent storage.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

// Repository defines operations for issuing, looking up and revoking sessions.
type Repository interface {
	// Create stores a new session. A duplicate token surfaces as a
	// constraint violation from the store.
	Create(ctx context.Context, s *models.Session) error

	// GetByID and GetByToken return common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByToken(ctx context.Context, token string) (*models.Session, error)

	// ListByUser returns every session of userID, expired ones included,
	// ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]*models.Session, error)

	// Delete removes a session by id. Deleting a non-existent session is
	// not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes all sessions of userID and reports how many.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes every session with expires_at < now and reports
	// how many rows went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
