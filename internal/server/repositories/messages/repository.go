// Package messages stores direct and group messages.
package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	UpdateContent(ctx context.Context, id string, content []byte, editedAt time.Time) error
	SoftDelete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	SetAttachment(ctx context.Context, id, key string) error

	// ListDirect returns messages exchanged between two users, newest first,
	// sent strictly before the given instant.
	ListDirect(ctx context.Context, userA, userB string, before time.Time, limit int) ([]*models.Message, error)
	ListByGroup(ctx context.Context, groupID string, before time.Time, limit int) ([]*models.Message, error)

	// MarkSenderDeleted clears sender_id on every message sent by userID and
	// records userID in deleted_sender. MarkRecipientDeleted does the same
	// for direct messages addressed to userID.
	MarkSenderDeleted(ctx context.Context, userID string) (int64, error)
	MarkRecipientDeleted(ctx context.Context, userID string) (int64, error)

	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
}
