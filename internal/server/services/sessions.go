package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

// TokenPair is what a client receives after login. The session token is
// long-lived and only good for refreshing; the access token authorizes
// API calls.
type TokenPair struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
	SessionID            string
	SessionToken         string
	SessionExpiresAt     time.Time
}

// Principal is the authenticated caller behind a token.
type Principal struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// SessionService is the session manager: creation, lookup, revocation,
// expiry sweep and the authorization checks built on top of them.
type SessionService struct {
	store  store.Store
	config *config.Config
	log    logging.Logger
	now    func() time.Time
}

func NewSessionService(st store.Store, cfg *config.Config, log logging.Logger) *SessionService {
	return &SessionService{
		store:  st,
		config: cfg,
		log:    log.With("module", "sessions"),
		now:    time.Now,
	}
}

func (s *SessionService) validateNew(userID, token string, expiresAt time.Time) error {
	if err := validation.First(validation.ID("user id", userID), validation.ID("session token", token)); err != nil {
		return err
	}
	if !expiresAt.After(s.now()) {
		return common.InvalidArgument("session expiry must be in the future")
	}
	return nil
}

// newSession persists a session inside the caller's unit of work.
func (s *SessionService) newSession(ctx context.Context, r store.Repositories, userID, token string, expiresAt time.Time) (*models.Session, error) {
	if err := s.validateNew(userID, token, expiresAt); err != nil {
		return nil, err
	}
	session := &models.Session{
		ID:        newID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}
	if err := r.Sessions().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CreateSession stores a new active session. expiresAt must be strictly in
// the future; a duplicate token surfaces as common.ErrorConflict.
func (s *SessionService) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) (*models.Session, error) {
	if err := s.validateNew(userID, token, expiresAt); err != nil {
		return nil, err
	}

	var session *models.Session
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		session, err = s.newSession(ctx, r, userID, token, expiresAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSessionByID returns nil, nil when the session does not exist.
func (s *SessionService) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	return s.lookup(ctx, func(ctx context.Context, r store.Repositories) (*models.Session, error) {
		return r.Sessions().GetByID(ctx, id)
	})
}

// GetSessionByToken returns nil, nil when no session carries token.
func (s *SessionService) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	return s.lookup(ctx, func(ctx context.Context, r store.Repositories) (*models.Session, error) {
		return r.Sessions().GetByToken(ctx, token)
	})
}

func (s *SessionService) lookup(ctx context.Context, get func(context.Context, store.Repositories) (*models.Session, error)) (*models.Session, error) {
	var session *models.Session
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		session, err = get(ctx, r)
		return err
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSessionsByUser lists every stored session of the user, expired ones
// included. An unknown user yields an empty list.
func (s *SessionService) GetSessionsByUser(ctx context.Context, userID string) ([]*models.Session, error) {
	var result []*models.Session
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Sessions().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSession is idempotent.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return r.Sessions().Delete(ctx, id)
	})
}

// RevokeUserSession deletes one of userID's own sessions. Sessions of other
// users are reported as missing.
func (s *SessionService) RevokeUserSession(ctx context.Context, userID, sessionID string) error {
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		session, err := r.Sessions().GetByID(ctx, sessionID)
		if err != nil {
			return notFound("session", err)
		}
		if session.UserID != userID {
			return fmt.Errorf("%w: session", common.ErrorNotFound)
		}
		return r.Sessions().Delete(ctx, sessionID)
	})
}

// SweepExpired removes every session with expiresAt < now in one
// transaction and reports whether anything was removed.
func (s *SessionService) SweepExpired(ctx context.Context, now time.Time) (bool, error) {
	var removed int64
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		removed, err = r.Sessions().DeleteExpired(ctx, now)
		return err
	})
	if err != nil {
		return false, err
	}
	s.log.Info(ctx, "expired sessions swept", "removed", removed, "now", now)
	return removed > 0, nil
}

// Authenticate resolves an opaque session token. Missing and expired
// sessions are indistinguishable to the caller.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	session, err := s.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.ActiveAt(s.now()) {
		return nil, common.ErrorUnauthorized
	}
	return &Principal{UserID: session.UserID, SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// AuthenticateAccessToken validates a JWT and the session it is bound to.
// Revoking or expiring the session invalidates its access tokens at once.
func (s *SessionService) AuthenticateAccessToken(ctx context.Context, accessToken string) (*Principal, error) {
	claims, err := auth.ParseToken(accessToken, []byte(s.config.SecretKey))
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	session, err := s.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.ActiveAt(s.now()) || session.UserID != claims.UserID {
		return nil, common.ErrorUnauthorized
	}
	return &Principal{UserID: claims.UserID, SessionID: claims.SessionID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// issueAccessToken mints a JWT that never outlives its session.
func (s *SessionService) issueAccessToken(session *models.Session) (string, time.Time, error) {
	expiresAt := s.now().Add(s.config.AccessTokenValidityDuration)
	if session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}
	token, err := auth.GenerateToken(session.UserID, session.ID, []byte(s.config.SecretKey), expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return token, expiresAt, nil
}

func (s *SessionService) tokenPair(session *models.Session) (*TokenPair, error) {
	access, expiresAt, err := s.issueAccessToken(session)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:          access,
		AccessTokenExpiresAt: expiresAt,
		SessionID:            session.ID,
		SessionToken:         session.Token,
		SessionExpiresAt:     session.ExpiresAt,
	}, nil
}

// Refresh trades an active session token for a fresh access token.
func (s *SessionService) Refresh(ctx context.Context, sessionToken string) (*TokenPair, error) {
	if sessionToken == "" {
		return nil, common.ErrorUnauthorized
	}
	session, err := s.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !session.ActiveAt(s.now()) {
		return nil, common.ErrorUnauthorized
	}
	return s.tokenPair(session)
}
