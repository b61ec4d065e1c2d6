package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type sessionRepo struct{ *repos }

func (r *sessionRepo) Create(_ context.Context, s *models.Session) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.sessions[s.ID]; ok {
		return conflict("sessions_pkey")
	}
	if _, ok := r.st.users[s.UserID]; !ok {
		return conflict("sessions_user_id_fkey")
	}
	for _, other := range r.st.sessions {
		if other.Token == s.Token {
			return conflict("sessions_token_key")
		}
	}
	r.st.sessions[s.ID] = *s
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	s, ok := r.st.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *sessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	for _, s := range r.st.sessions {
		if s.Token == token {
			return &s, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *sessionRepo) ListByUser(_ context.Context, userID string) ([]*models.Session, error) {
	var result []*models.Session
	for _, s := range r.st.sessions {
		if s.UserID == userID {
			result = append(result, &s)
		}
	}
	slices.SortFunc(result, func(a, b *models.Session) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *sessionRepo) Delete(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	delete(r.st.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.sessions, func(s models.Session) bool { return s.UserID == userID }), nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	return deleteWhere(r.st.sessions, func(s models.Session) bool { return s.ExpiresAt.Before(now) }), nil
}
