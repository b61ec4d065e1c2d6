package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type friendshipRepo struct{ *repos }

func (r *friendshipRepo) Create(_ context.Context, f *models.Friendship) error {
	if err := r.writable(); err != nil {
		return err
	}
	if f.UserID1 >= f.UserID2 {
		return conflict("friendships_ordered")
	}
	if _, ok := r.st.friendships[f.FriendshipKey]; ok {
		return conflict("friendships_pkey")
	}
	for _, id := range []string{f.UserID1, f.UserID2} {
		if _, ok := r.st.users[id]; !ok {
			return conflict("friendships_user_fkey")
		}
	}
	r.st.friendships[f.FriendshipKey] = *f
	return nil
}

func (r *friendshipRepo) Get(_ context.Context, key models.FriendshipKey) (*models.Friendship, error) {
	f, ok := r.st.friendships[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &f, nil
}

func (r *friendshipRepo) UpdateStatus(_ context.Context, key models.FriendshipKey, status models.FriendshipStatus, updatedAt time.Time) error {
	if err := r.writable(); err != nil {
		return err
	}
	f, ok := r.st.friendships[key]
	if !ok {
		return common.ErrorNotFound
	}
	f.Status = status
	f.UpdatedAt = updatedAt
	r.st.friendships[key] = f
	return nil
}

func (r *friendshipRepo) Delete(_ context.Context, key models.FriendshipKey) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.friendships[key]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.friendships, key)
	return nil
}

func (r *friendshipRepo) ListByUser(_ context.Context, userID string) ([]*models.Friendship, error) {
	var result []*models.Friendship
	for k, f := range r.st.friendships {
		if k.UserID1 == userID || k.UserID2 == userID {
			result = append(result, &f)
		}
	}
	slices.SortFunc(result, func(a, b *models.Friendship) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.UserID1, b.UserID1), cmp.Compare(a.UserID2, b.UserID2))
	})
	return result, nil
}

func (r *friendshipRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.friendships, func(f models.Friendship) bool {
		return f.UserID1 == userID || f.UserID2 == userID
	}), nil
}
