// Package friendships stores the symmetric friendship relation. Keys are
// always passed in canonical order, see models.NewFriendshipKey.
package friendships

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Friendship) error
	Get(ctx context.Context, key models.FriendshipKey) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, key models.FriendshipKey, status models.FriendshipStatus, updatedAt time.Time) error
	Delete(ctx context.Context, key models.FriendshipKey) error
	ListByUser(ctx context.Context, userID string) ([]*models.Friendship, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
