package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

// MaxSearchResults caps SearchUsers.
const MaxSearchResults = 50

// RegisterRequest carries the fields a new account is created from. The
// keys are opaque client-side material stored verbatim.
type RegisterRequest struct {
	Username            string
	Email               string
	Password            string
	PublicKey           string
	EncryptedPrivateKey string
}

type UserService struct {
	store    store.Store
	sessions *SessionService
	config   *config.Config
	log      logging.Logger
	now      func() time.Time
}

func NewUserService(st store.Store, sessions *SessionService, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		store:    st,
		sessions: sessions,
		config:   cfg,
		log:      log.With("module", "users"),
		now:      time.Now,
	}
}

// Register creates an account with a freshly salted argon2id hash.
// A taken username or email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := validation.First(
		validation.Username(req.Username),
		validation.Email(req.Email),
		validation.Password(req.Password),
	); err != nil {
		return nil, err
	}

	salt := cryptox.GenerateSalt()
	hash, err := cryptox.HashPassword(req.Password, salt)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:                  newID(),
		Username:            req.Username,
		Email:               req.Email,
		PasswordHash:        hash,
		PasswordSalt:        salt,
		PublicKey:           req.PublicKey,
		EncryptedPrivateKey: req.EncryptedPrivateKey,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return r.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and opens a new session. Unknown usernames
// and wrong passwords both return common.ErrorUnauthorized after the same
// amount of hashing work.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if err := validation.First(validation.Username(username), validation.Password(password)); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		user, err = r.Users().GetByUsername(ctx, username)
		return err
	})
	if isNotFound(err) {
		cryptox.SimulateVerify(password)
		s.log.Warn(ctx, "login failed", "reason", "unknown user")
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, password, user.PasswordSalt)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: stored credentials", common.ErrorInternal)
	}
	if !ok {
		s.log.Warn(ctx, "login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	token, err := common.MakeRandHexString(common.SessionTokenSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	var session *models.Session
	err = s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if cryptox.NeedsRehash(user.PasswordHash) {
			if err := s.rehash(ctx, r, user, password); err != nil {
				return err
			}
		}
		var err error
		session, err = s.sessions.newSession(ctx, r, user.ID, token, s.now().Add(s.config.SessionValidityDuration))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID)
	return s.sessions.tokenPair(session)
}

func (s *UserService) rehash(ctx context.Context, r store.Repositories, user *models.User, password string) error {
	salt := cryptox.GenerateSalt()
	hash, err := cryptox.HashPassword(password, salt)
	if err != nil {
		return err
	}
	user.PasswordHash, user.PasswordSalt, user.UpdatedAt = hash, salt, s.now()
	if err := r.Users().Update(ctx, user); err != nil {
		return err
	}
	s.log.Info(ctx, "password hash upgraded", "user_id", user.ID)
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := validation.ID("user id", id); err != nil {
		return nil, err
	}
	var user *models.User
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		user, err = r.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	var user *models.User
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		user, err = r.Users().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// SearchUsers returns users whose username starts with prefix, ordered by
// username.
func (s *UserService) SearchUsers(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	if err := validation.ID("search prefix", prefix); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	var result []*models.User
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Users().Search(ctx, prefix, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateUser applies the non-nil fields of patch.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Email != nil {
		if err := validation.Email(*patch.Email); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		user, err = r.Users().GetByID(ctx, id)
		if err != nil {
			return notFound("user", err)
		}
		if patch.Email != nil {
			user.Email = *patch.Email
		}
		if patch.PublicKey != nil {
			user.PublicKey = *patch.PublicKey
		}
		if patch.EncryptedPrivateKey != nil {
			user.EncryptedPrivateKey = *patch.EncryptedPrivateKey
		}
		user.UpdatedAt = s.now()
		return r.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-salts and re-hashes the password and revokes every
// session of the user except keepSessionID.
func (s *UserService) ChangePassword(ctx context.Context, userID, keepSessionID, oldPassword, newPassword string) error {
	if err := validation.First(validation.Password(oldPassword), validation.Password(newPassword)); err != nil {
		return err
	}

	salt := cryptox.GenerateSalt()
	hash, err := cryptox.HashPassword(newPassword, salt)
	if err != nil {
		return err
	}

	var revoked int
	err = s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		user, err := r.Users().GetByID(ctx, userID)
		if err != nil {
			return notFound("user", err)
		}
		ok, err := cryptox.VerifyPassword(user.PasswordHash, oldPassword, user.PasswordSalt)
		if err != nil {
			return fmt.Errorf("%w: stored credentials", common.ErrorInternal)
		}
		if !ok {
			return common.ErrorUnauthorized
		}

		user.PasswordHash, user.PasswordSalt, user.UpdatedAt = hash, salt, s.now()
		if err := r.Users().Update(ctx, user); err != nil {
			return err
		}

		sessions, err := r.Sessions().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if session.ID == keepSessionID {
				continue
			}
			if err := r.Sessions().Delete(ctx, session.ID); err != nil {
				return err
			}
			revoked++
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "password changed", "user_id", userID, "sessions_revoked", revoked)
	return nil
}
