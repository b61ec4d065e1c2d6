// Package members stores group memberships keyed by (group, user).
package members

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, m *models.Membership) error
	// Get returns common.ErrorNotFound when the user is not a member.
	Get(ctx context.Context, key models.MembershipKey) (*models.Membership, error)
	// GetForUpdate is Get plus a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, key models.MembershipKey) (*models.Membership, error)
	// ListByGroup orders by join time, then user id.
	ListByGroup(ctx context.Context, groupID string) ([]*models.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Membership, error)
	UpdateRole(ctx context.Context, key models.MembershipKey, role string) error
	// Delete returns common.ErrorNotFound when no row matched.
	Delete(ctx context.Context, key models.MembershipKey) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
}
