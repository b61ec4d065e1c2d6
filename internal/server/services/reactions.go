package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

// ReactionService manages emoji reactions. Only readers of a message may
// react to it or see its reactions.
type ReactionService struct {
	store store.Store
	now   func() time.Time
}

func NewReactionService(st store.Store) *ReactionService {
	return &ReactionService{store: st, now: time.Now}
}

func (s *ReactionService) Add(ctx context.Context, actorID, messageID, emoji string) (*models.Reaction, error) {
	if err := validation.Emoji(emoji); err != nil {
		return nil, err
	}
	rc := &models.Reaction{
		ReactionKey: models.ReactionKey{UserID: actorID, MessageID: messageID, Emoji: emoji},
		CreatedAt:   s.now(),
	}
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := readableMessage(ctx, r, messageID, actorID); err != nil {
			return err
		}
		return r.Reactions().Add(ctx, rc)
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *ReactionService) Remove(ctx context.Context, actorID, messageID, emoji string) error {
	if err := validation.Emoji(emoji); err != nil {
		return err
	}
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		key := models.ReactionKey{UserID: actorID, MessageID: messageID, Emoji: emoji}
		return notFound("reaction", r.Reactions().Delete(ctx, key))
	})
}

func (s *ReactionService) List(ctx context.Context, actorID, messageID string) ([]*models.Reaction, error) {
	var result []*models.Reaction
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		if _, err := readableMessage(ctx, r, messageID, actorID); err != nil {
			return err
		}
		var err error
		result, err = r.Reactions().ListByMessage(ctx, messageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
