package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type reactionRepo struct{ *repos }

func (r *reactionRepo) Add(_ context.Context, rc *models.Reaction) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.reactions[rc.ReactionKey]; ok {
		return conflict("reactions_pkey")
	}
	if _, ok := r.st.messages[rc.MessageID]; !ok {
		return conflict("reactions_message_id_fkey")
	}
	if _, ok := r.st.users[rc.UserID]; !ok {
		return conflict("reactions_user_id_fkey")
	}
	r.st.reactions[rc.ReactionKey] = *rc
	return nil
}

func (r *reactionRepo) Delete(_ context.Context, key models.ReactionKey) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.reactions[key]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.reactions, key)
	return nil
}

func (r *reactionRepo) ListByMessage(_ context.Context, messageID string) ([]*models.Reaction, error) {
	var result []*models.Reaction
	for k, rc := range r.st.reactions {
		if k.MessageID == messageID {
			result = append(result, &rc)
		}
	}
	slices.SortFunc(result, func(a, b *models.Reaction) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.UserID, b.UserID), cmp.Compare(a.Emoji, b.Emoji))
	})
	return result, nil
}

func (r *reactionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.reactions, func(rc models.Reaction) bool { return rc.UserID == userID }), nil
}

func (r *reactionRepo) DeleteByMessage(_ context.Context, messageID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.reactions, func(rc models.Reaction) bool { return rc.MessageID == messageID }), nil
}

func (r *reactionRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.reactions, func(rc models.Reaction) bool {
		m, ok := r.st.messages[rc.MessageID]
		return ok && m.GroupID != nil && *m.GroupID == groupID
	}), nil
}
