package memory

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type messageRepo struct{ *repos }

func copyMessage(m models.Message) *models.Message {
	m.Content = bytes.Clone(m.Content)
	return &m
}

func (r *messageRepo) Create(_ context.Context, m *models.Message) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.messages[m.ID]; ok {
		return conflict("messages_pkey")
	}
	if (m.RecipientID != nil) == (m.GroupID != nil) || m.IsGroup != (m.GroupID != nil) {
		return conflict("messages_one_target")
	}
	for _, ref := range []*string{m.SenderID, m.RecipientID} {
		if ref == nil {
			continue
		}
		if _, ok := r.st.users[*ref]; !ok {
			return conflict("messages_user_fkey")
		}
	}
	if m.GroupID != nil {
		if _, ok := r.st.groups[*m.GroupID]; !ok {
			return conflict("messages_group_id_fkey")
		}
	}
	r.st.messages[m.ID] = *copyMessage(*m)
	return nil
}

func (r *messageRepo) GetByID(_ context.Context, id string) (*models.Message, error) {
	m, ok := r.st.messages[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyMessage(m), nil
}

func (r *messageRepo) update(id string, fn func(m *models.Message)) error {
	if err := r.writable(); err != nil {
		return err
	}
	m, ok := r.st.messages[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&m)
	r.st.messages[id] = m
	return nil
}

func (r *messageRepo) UpdateContent(_ context.Context, id string, content []byte, editedAt time.Time) error {
	return r.update(id, func(m *models.Message) {
		m.Content = bytes.Clone(content)
		m.EditedAt = &editedAt
	})
}

func (r *messageRepo) SoftDelete(_ context.Context, id string) error {
	return r.update(id, func(m *models.Message) { m.IsDeleted = true })
}

func (r *messageRepo) SetAttachment(_ context.Context, id, key string) error {
	return r.update(id, func(m *models.Message) { m.AttachmentKey = &key })
}

func (r *messageRepo) Delete(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.messages[id]; !ok {
		return common.ErrorNotFound
	}
	deleteWhere(r.st.reactions, func(rc models.Reaction) bool { return rc.MessageID == id })
	delete(r.st.messages, id)
	return nil
}

func newestFirst(a, b *models.Message) int {
	return cmp.Or(b.SentAt.Compare(a.SentAt), cmp.Compare(b.ID, a.ID))
}

func (r *messageRepo) list(match func(m *models.Message) bool, limit int) []*models.Message {
	var result []*models.Message
	for _, m := range r.st.messages {
		if match(&m) {
			result = append(result, copyMessage(m))
		}
	}
	slices.SortFunc(result, newestFirst)
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (r *messageRepo) ListDirect(_ context.Context, userA, userB string, before time.Time, limit int) ([]*models.Message, error) {
	return r.list(func(m *models.Message) bool {
		if m.IsGroup || !m.SentAt.Before(before) {
			return false
		}
		return (m.SentBy(userA) && m.AddressedTo(userB)) || (m.SentBy(userB) && m.AddressedTo(userA))
	}, limit), nil
}

func (r *messageRepo) ListByGroup(_ context.Context, groupID string, before time.Time, limit int) ([]*models.Message, error) {
	return r.list(func(m *models.Message) bool {
		return m.GroupID != nil && *m.GroupID == groupID && m.SentAt.Before(before)
	}, limit), nil
}

func (r *messageRepo) MarkSenderDeleted(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range r.st.messages {
		if m.SentBy(userID) {
			marker := userID
			m.DeletedSender = &marker
			m.SenderID = nil
			r.st.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *messageRepo) MarkRecipientDeleted(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range r.st.messages {
		if m.AddressedTo(userID) {
			marker := userID
			m.DeletedRecipient = &marker
			m.RecipientID = nil
			r.st.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *messageRepo) DeleteByGroup(_ context.Context, groupID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.messages, func(m models.Message) bool { return m.GroupID != nil && *m.GroupID == groupID }), nil
}
