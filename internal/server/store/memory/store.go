// Package memory is an in-process Store used for development and tests.
// Write transactions run against a private copy of the state that replaces
// the shared one on commit, so a failed or panicking transaction leaves no
// trace. Writers are serialized; readers share the committed state.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/members"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
)

var errReadOnly = fmt.Errorf("%w: write in read-only transaction", common.ErrorInternal)

type state struct {
	users         map[string]models.User
	sessions      map[string]models.Session
	groups        map[string]models.Group
	members       map[models.MembershipKey]models.Membership
	messages      map[string]models.Message
	friendships   map[models.FriendshipKey]models.Friendship
	reactions     map[models.ReactionKey]models.Reaction
	notifications map[string]models.Notification
}

func newState() *state {
	return &state{
		users:         map[string]models.User{},
		sessions:      map[string]models.Session{},
		groups:        map[string]models.Group{},
		members:       map[models.MembershipKey]models.Membership{},
		messages:      map[string]models.Message{},
		friendships:   map[models.FriendshipKey]models.Friendship{},
		reactions:     map[models.ReactionKey]models.Reaction{},
		notifications: map[string]models.Notification{},
	}
}

// clone copies the maps. Values are structs whose pointer and slice fields
// are replaced, never mutated in place, so a shallow copy is enough.
func (s *state) clone() *state {
	return &state{
		users:         maps.Clone(s.users),
		sessions:      maps.Clone(s.sessions),
		groups:        maps.Clone(s.groups),
		members:       maps.Clone(s.members),
		messages:      maps.Clone(s.messages),
		friendships:   maps.Clone(s.friendships),
		reactions:     maps.Clone(s.reactions),
		notifications: maps.Clone(s.notifications),
	}
}

type Store struct {
	mu     sync.RWMutex
	st     *state
	closed bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) Read(ctx context.Context, fn func(ctx context.Context, r store.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return common.ErrorResourceExhausted
	}
	return fn(ctx, &repos{st: s.st, readOnly: true})
}

func (s *Store) WithTx(ctx context.Context, write bool, fn func(ctx context.Context, r store.Repositories) error) error {
	if !write {
		return s.Read(ctx, fn)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return common.ErrorResourceExhausted
	}

	work := s.st.clone()
	if err := fn(ctx, &repos{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return common.ErrorResourceExhausted
	}
	return ctx.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type repos struct {
	st       *state
	readOnly bool
}

func (r *repos) Users() users.Repository                 { return &userRepo{r} }
func (r *repos) Sessions() sessions.Repository           { return &sessionRepo{r} }
func (r *repos) Groups() groups.Repository               { return &groupRepo{r} }
func (r *repos) Members() members.Repository             { return &memberRepo{r} }
func (r *repos) Messages() messages.Repository           { return &messageRepo{r} }
func (r *repos) Friendships() friendships.Repository     { return &friendshipRepo{r} }
func (r *repos) Reactions() reactions.Repository         { return &reactionRepo{r} }
func (r *repos) Notifications() notifications.Repository { return &notificationRepo{r} }

func (r *repos) writable() error {
	if r.readOnly {
		return errReadOnly
	}
	return nil
}

func conflict(what string) error {
	return fmt.Errorf("%w: %s", common.ErrorConflict, what)
}
