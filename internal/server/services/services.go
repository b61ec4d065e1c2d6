// Package services implements the gophchat business operations on top of
// store.Store. Each exported method validates its input, then runs one Read
// or one WithTx unit of work, so multi-step mutations are atomic.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
	"github.com/google/uuid"
)

// Paging bounds for message lists.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// farFuture stands in for an absent "before" cursor.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var newID = uuid.NewString

// PageLimit clamps a requested page size into [1, MaxPageSize].
func PageLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}

func cursor(before time.Time) time.Time {
	if before.IsZero() {
		return farFuture
	}
	return before
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

// notFound decorates a bare ErrorNotFound with the missing entity.
func notFound(what string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, what)
	}
	return err
}

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", common.ErrorForbidden, reason)
}

func notify(ctx context.Context, r store.Repositories, userID, typ, content string, now time.Time) error {
	if err := validation.NotificationType(typ); err != nil {
		return err
	}
	return r.Notifications().Create(ctx, &models.Notification{
		ID:        newID(),
		UserID:    userID,
		Type:      typ,
		Content:   content,
		CreatedAt: now,
	})
}

// canRead reports whether userID may see m: its sender, its direct
// recipient, or a member of its group.
func canRead(ctx context.Context, r store.Repositories, m *models.Message, userID string) (bool, error) {
	if m.SentBy(userID) || m.AddressedTo(userID) {
		return true, nil
	}
	if !m.IsGroup || m.GroupID == nil {
		return false, nil
	}
	_, err := r.Members().Get(ctx, models.MembershipKey{GroupID: *m.GroupID, UserID: userID})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	}
	return false, err
}

// readableMessage loads a message and hides it from users who may not
// read it.
func readableMessage(ctx context.Context, r store.Repositories, id, userID string) (*models.Message, error) {
	m, err := r.Messages().GetByID(ctx, id)
	if err != nil {
		return nil, notFound("message", err)
	}
	ok, err := canRead(ctx, r, m, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: message", common.ErrorNotFound)
	}
	return m, nil
}
