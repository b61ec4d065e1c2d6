package services

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
)

// NotificationService exposes a user's own notifications. They are created
// by the other services inside their transactions.
type NotificationService struct {
	store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	var result []*models.Notification
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Notifications().ListByUser(ctx, userID, unreadOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return notFound("notification", r.Notifications().MarkRead(ctx, id, userID))
	})
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return notFound("notification", r.Notifications().Delete(ctx, id, userID))
	})
}
