package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type notificationRepo struct{ *repos }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.notifications[n.ID]; ok {
		return conflict("notifications_pkey")
	}
	if _, ok := r.st.users[n.UserID]; !ok {
		return conflict("notifications_user_id_fkey")
	}
	r.st.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	var result []*models.Notification
	for _, n := range r.st.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			result = append(result, &n)
		}
	}
	slices.SortFunc(result, func(a, b *models.Notification) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *notificationRepo) owned(id, userID string) (models.Notification, error) {
	if err := r.writable(); err != nil {
		return models.Notification{}, err
	}
	n, ok := r.st.notifications[id]
	if !ok || n.UserID != userID {
		return models.Notification{}, common.ErrorNotFound
	}
	return n, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, userID string) error {
	n, err := r.owned(id, userID)
	if err != nil {
		return err
	}
	n.IsRead = true
	r.st.notifications[id] = n
	return nil
}

func (r *notificationRepo) Delete(_ context.Context, id, userID string) error {
	if _, err := r.owned(id, userID); err != nil {
		return err
	}
	delete(r.st.notifications, id)
	return nil
}

func (r *notificationRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.notifications, func(n models.Notification) bool { return n.UserID == userID }), nil
}
