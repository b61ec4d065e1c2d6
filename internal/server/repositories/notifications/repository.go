// Package notifications stores per-user notifications.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error)
	// MarkRead and Delete only touch rows owned by userID and return
	// common.ErrorNotFound otherwise.
	MarkRead(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
