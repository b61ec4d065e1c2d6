// Package reactions stores emoji reactions keyed by (user, message, emoji).
package reactions

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, r *models.Reaction) error
	Delete(ctx context.Context, key models.ReactionKey) error
	ListByMessage(ctx context.Context, messageID string) ([]*models.Reaction, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByMessage(ctx context.Context, messageID string) (int64, error)
	// DeleteByGroup removes reactions on every message of the group.
	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
}
