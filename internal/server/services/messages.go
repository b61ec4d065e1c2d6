package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/blobstore"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

// SendRequest targets exactly one of RecipientID and GroupID. Content is
// opaque ciphertext produced by the client.
type SendRequest struct {
	RecipientID string
	GroupID     string
	Content     []byte
}

type MessageService struct {
	store     store.Store
	presigner blobstore.Presigner
	log       logging.Logger
	now       func() time.Time
}

func NewMessageService(st store.Store, presigner blobstore.Presigner, log logging.Logger) *MessageService {
	return &MessageService{
		store:     st,
		presigner: presigner,
		log:       log.With("module", "messages"),
		now:       time.Now,
	}
}

// redact drops the content of soft-deleted messages before they leave the
// service.
func redact(msgs ...*models.Message) {
	for _, m := range msgs {
		if m.IsDeleted {
			m.Content = nil
		}
	}
}

func (s *MessageService) Send(ctx context.Context, senderID string, req SendRequest) (*models.Message, error) {
	if err := validation.First(
		validation.ID("sender id", senderID),
		validation.MessageTarget(req.RecipientID, req.GroupID),
		validation.MessageContent(req.Content),
	); err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:       newID(),
		SenderID: &senderID,
		Content:  req.Content,
		SentAt:   s.now(),
	}

	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if req.GroupID != "" {
			if _, err := r.Groups().GetByID(ctx, req.GroupID); err != nil {
				return notFound("group", err)
			}
			if _, err := requireMember(ctx, r, req.GroupID, senderID); err != nil {
				return err
			}
			m.GroupID, m.IsGroup = &req.GroupID, true
		} else {
			if req.RecipientID == senderID {
				return common.InvalidArgument("cannot send a direct message to yourself")
			}
			if _, err := r.Users().GetByID(ctx, req.RecipientID); err != nil {
				return notFound("recipient", err)
			}
			m.RecipientID = &req.RecipientID
		}
		return r.Messages().Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MessageService) Get(ctx context.Context, actorID, messageID string) (*models.Message, error) {
	var m *models.Message
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		m, err = readableMessage(ctx, r, messageID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	redact(m)
	return m, nil
}

// sentMessage loads a message the actor sent. Others get ErrorForbidden if
// they can read it and ErrorNotFound otherwise.
func sentMessage(ctx context.Context, r store.Repositories, messageID, actorID string) (*models.Message, error) {
	m, err := readableMessage(ctx, r, messageID, actorID)
	if err != nil {
		return nil, err
	}
	if !m.SentBy(actorID) {
		return nil, forbidden("only the sender can change a message")
	}
	return m, nil
}

// Edit replaces the content of a live message. Sender only.
func (s *MessageService) Edit(ctx context.Context, actorID, messageID string, content []byte) (*models.Message, error) {
	if err := validation.MessageContent(content); err != nil {
		return nil, err
	}
	var m *models.Message
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		if m, err = sentMessage(ctx, r, messageID, actorID); err != nil {
			return err
		}
		if m.IsDeleted {
			return common.InvalidArgument("message is deleted")
		}
		editedAt := s.now()
		m.Content, m.EditedAt = content, &editedAt
		return r.Messages().UpdateContent(ctx, messageID, content, editedAt)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Delete soft-deletes a message, or removes it with its reactions when hard
// is set. Sender only.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID string, hard bool) error {
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := sentMessage(ctx, r, messageID, actorID); err != nil {
			return err
		}
		if !hard {
			return r.Messages().SoftDelete(ctx, messageID)
		}
		if _, err := r.Reactions().DeleteByMessage(ctx, messageID); err != nil {
			return err
		}
		return r.Messages().Delete(ctx, messageID)
	})
}

// ListDirect pages the conversation between me and other, newest first,
// strictly before the cursor.
func (s *MessageService) ListDirect(ctx context.Context, me, other string, before time.Time, limit int) ([]*models.Message, error) {
	if err := validation.First(validation.ID("user id", me), validation.ID("user id", other)); err != nil {
		return nil, err
	}
	var result []*models.Message
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Messages().ListDirect(ctx, me, other, cursor(before), PageLimit(limit))
		return err
	})
	if err != nil {
		return nil, err
	}
	redact(result...)
	return result, nil
}

func (s *MessageService) ListGroup(ctx context.Context, me, groupID string, before time.Time, limit int) ([]*models.Message, error) {
	var result []*models.Message
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		if _, err := r.Groups().GetByID(ctx, groupID); err != nil {
			return notFound("group", err)
		}
		if _, err := requireMember(ctx, r, groupID, me); err != nil {
			return err
		}
		var err error
		result, err = r.Messages().ListByGroup(ctx, groupID, cursor(before), PageLimit(limit))
		return err
	})
	if err != nil {
		return nil, err
	}
	redact(result...)
	return result, nil
}

// RequestAttachmentUpload allocates a fresh object key for the message's
// attachment and returns a presigned PUT URL for it. Sender only.
func (s *MessageService) RequestAttachmentUpload(ctx context.Context, actorID, messageID string) (*models.AttachmentTicket, error) {
	now := s.now()
	key := blobstore.NewStorageKey(now)

	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		m, err := sentMessage(ctx, r, messageID, actorID)
		if err != nil {
			return err
		}
		if m.IsDeleted {
			return common.InvalidArgument("message is deleted")
		}
		return r.Messages().SetAttachment(ctx, messageID, key)
	})
	if err != nil {
		return nil, err
	}

	url, err := s.presigner.PresignPut(ctx, key)
	if err != nil {
		s.log.Error(ctx, "presign put failed", "message_id", messageID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &models.AttachmentTicket{
		MessageID:  messageID,
		StorageKey: key,
		URL:        url,
		ExpiresAt:  now.Add(blobstore.PresignExpiry),
	}, nil
}

// AttachmentDownloadURL returns a presigned GET URL to any reader of the
// message.
func (s *MessageService) AttachmentDownloadURL(ctx context.Context, actorID, messageID string) (*models.AttachmentTicket, error) {
	var m *models.Message
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		m, err = readableMessage(ctx, r, messageID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if m.AttachmentKey == nil || m.IsDeleted {
		return nil, fmt.Errorf("%w: attachment", common.ErrorNotFound)
	}

	url, err := s.presigner.PresignGet(ctx, *m.AttachmentKey)
	if err != nil {
		s.log.Error(ctx, "presign get failed", "message_id", messageID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return &models.AttachmentTicket{
		MessageID:  messageID,
		StorageKey: *m.AttachmentKey,
		URL:        url,
		ExpiresAt:  s.now().Add(blobstore.PresignExpiry),
	}, nil
}
