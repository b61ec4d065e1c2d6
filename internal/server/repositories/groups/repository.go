// Package groups stores chat groups.
package groups

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	// GetForUpdate reads the group and locks its row until the end of the
	// surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Group, error)
	ListForMember(ctx context.Context, userID string) ([]*models.Group, error)
	// LockOwnedBy returns and locks every group owned by ownerID.
	LockOwnedBy(ctx context.Context, ownerID string) ([]*models.Group, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateOwner(ctx context.Context, id, ownerID string) error
	Delete(ctx context.Context, id string) error
}
