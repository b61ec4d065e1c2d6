package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

type FriendshipService struct {
	store store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewFriendshipService(st store.Store, log logging.Logger) *FriendshipService {
	return &FriendshipService{
		store: st,
		log:   log.With("module", "friendships"),
		now:   time.Now,
	}
}

// Request opens a pending friendship from me to other and notifies other.
// An existing relation in either direction is a conflict.
func (s *FriendshipService) Request(ctx context.Context, me, other string) (*models.Friendship, error) {
	if err := validation.FriendshipLink(me, other); err != nil {
		return nil, err
	}

	now := s.now()
	f := &models.Friendship{
		FriendshipKey: models.NewFriendshipKey(me, other),
		Status:        models.FriendshipPending,
		RequestedBy:   me,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := r.Users().GetByID(ctx, other); err != nil {
			return notFound("user", err)
		}
		if err := r.Friendships().Create(ctx, f); err != nil {
			return err
		}
		return notify(ctx, r, other, models.NotificationFriendRequest, me, now)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SetStatus changes the status of an existing relation. Only the addressee
// of a pending request may accept it.
func (s *FriendshipService) SetStatus(ctx context.Context, me, other string, status models.FriendshipStatus) (*models.Friendship, error) {
	if err := validation.First(validation.FriendshipLink(me, other), validation.FriendshipStatus(status)); err != nil {
		return nil, err
	}

	key := models.NewFriendshipKey(me, other)
	var f *models.Friendship
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		if f, err = r.Friendships().Get(ctx, key); err != nil {
			return notFound("friendship", err)
		}
		if status == models.FriendshipFriends && f.Status == models.FriendshipPending && f.RequestedBy == me {
			return forbidden("a request cannot be accepted by its sender")
		}
		f.Status, f.UpdatedAt = status, s.now()
		return r.Friendships().UpdateStatus(ctx, key, status, f.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FriendshipService) Remove(ctx context.Context, me, other string) error {
	if err := validation.FriendshipLink(me, other); err != nil {
		return err
	}
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return notFound("friendship", r.Friendships().Delete(ctx, models.NewFriendshipKey(me, other)))
	})
}

func (s *FriendshipService) List(ctx context.Context, me string) ([]*models.Friendship, error) {
	var result []*models.Friendship
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Friendships().ListByUser(ctx, me)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
