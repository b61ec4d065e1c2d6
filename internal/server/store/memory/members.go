package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type memberRepo struct{ *repos }

func (r *memberRepo) Add(_ context.Context, m *models.Membership) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.members[m.MembershipKey]; ok {
		return conflict("group_members_pkey")
	}
	if _, ok := r.st.groups[m.GroupID]; !ok {
		return conflict("group_members_group_id_fkey")
	}
	if _, ok := r.st.users[m.UserID]; !ok {
		return conflict("group_members_user_id_fkey")
	}
	r.st.members[m.MembershipKey] = *m
	return nil
}

func (r *memberRepo) Get(_ context.Context, key models.MembershipKey) (*models.Membership, error) {
	m, ok := r.st.members[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (r *memberRepo) GetForUpdate(ctx context.Context, key models.MembershipKey) (*models.Membership, error) {
	return r.Get(ctx, key)
}

func byJoinedAt(a, b *models.Membership) int {
	return cmp.Or(a.JoinedAt.Compare(b.JoinedAt), cmp.Compare(a.UserID, b.UserID), cmp.Compare(a.GroupID, b.GroupID))
}

func (r *memberRepo) ListByGroup(_ context.Context, groupID string) ([]*models.Membership, error) {
	return r.list(func(k models.MembershipKey) bool { return k.GroupID == groupID }), nil
}

func (r *memberRepo) ListByUser(_ context.Context, userID string) ([]*models.Membership, error) {
	return r.list(func(k models.MembershipKey) bool { return k.UserID == userID }), nil
}

func (r *memberRepo) list(match func(models.MembershipKey) bool) []*models.Membership {
	var result []*models.Membership
	for k, m := range r.st.members {
		if match(k) {
			result = append(result, &m)
		}
	}
	slices.SortFunc(result, byJoinedAt)
	return result
}

func (r *memberRepo) UpdateRole(_ context.Context, key models.MembershipKey, role string) error {
	if err := r.writable(); err != nil {
		return err
	}
	m, ok := r.st.members[key]
	if !ok {
		return common.ErrorNotFound
	}
	m.Role = role
	r.st.members[key] = m
	return nil
}

func (r *memberRepo) Delete(_ context.Context, key models.MembershipKey) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.members[key]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.members, key)
	return nil
}

func (r *memberRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.members, func(m models.Membership) bool { return m.UserID == userID }), nil
}

func (r *memberRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.members, func(m models.Membership) bool { return m.GroupID == groupID }), nil
}
