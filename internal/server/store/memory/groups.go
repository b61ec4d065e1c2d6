package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type groupRepo struct{ *repos }

func (r *groupRepo) Create(_ context.Context, g *models.Group) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.groups[g.ID]; ok {
		return conflict("groups_pkey")
	}
	if _, ok := r.st.users[g.OwnerID]; !ok {
		return conflict("groups_owner_id_fkey")
	}
	r.st.groups[g.ID] = *g
	return nil
}

func (r *groupRepo) GetByID(_ context.Context, id string) (*models.Group, error) {
	g, ok := r.st.groups[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &g, nil
}

// GetForUpdate needs no lock here: write transactions are serialized.
func (r *groupRepo) GetForUpdate(ctx context.Context, id string) (*models.Group, error) {
	return r.GetByID(ctx, id)
}

func (r *groupRepo) ListForMember(_ context.Context, userID string) ([]*models.Group, error) {
	var result []*models.Group
	for key := range r.st.members {
		if key.UserID != userID {
			continue
		}
		if g, ok := r.st.groups[key.GroupID]; ok {
			result = append(result, &g)
		}
	}
	slices.SortFunc(result, func(a, b *models.Group) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *groupRepo) LockOwnedBy(_ context.Context, ownerID string) ([]*models.Group, error) {
	var result []*models.Group
	for _, g := range r.st.groups {
		if g.OwnerID == ownerID {
			result = append(result, &g)
		}
	}
	slices.SortFunc(result, func(a, b *models.Group) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func (r *groupRepo) UpdateName(_ context.Context, id, name string) error {
	return r.update(id, func(g *models.Group) error {
		g.Name = name
		return nil
	})
}

func (r *groupRepo) UpdateOwner(_ context.Context, id, ownerID string) error {
	return r.update(id, func(g *models.Group) error {
		if _, ok := r.st.users[ownerID]; !ok {
			return conflict("groups_owner_id_fkey")
		}
		g.OwnerID = ownerID
		return nil
	})
}

func (r *groupRepo) update(id string, fn func(g *models.Group) error) error {
	if err := r.writable(); err != nil {
		return err
	}
	g, ok := r.st.groups[id]
	if !ok {
		return common.ErrorNotFound
	}
	if err := fn(&g); err != nil {
		return err
	}
	r.st.groups[id] = g
	return nil
}

// Delete cascades to memberships, group messages and their reactions, as
// the schema's foreign keys do.
func (r *groupRepo) Delete(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.groups[id]; !ok {
		return common.ErrorNotFound
	}
	deleteWhere(r.st.members, func(m models.Membership) bool { return m.GroupID == id })
	deleteWhere(r.st.reactions, func(rc models.Reaction) bool {
		m, ok := r.st.messages[rc.MessageID]
		return ok && m.GroupID != nil && *m.GroupID == id
	})
	deleteWhere(r.st.messages, func(m models.Message) bool { return m.GroupID != nil && *m.GroupID == id })
	delete(r.st.groups, id)
	return nil
}
