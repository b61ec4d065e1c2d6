package memory

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type userRepo struct{ *repos }

func copyUser(u models.User) *models.User {
	u.PasswordSalt = bytes.Clone(u.PasswordSalt)
	return &u
}

func (r *userRepo) unique(u *models.User) error {
	for id, other := range r.st.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return conflict("users_username_key")
		}
		if other.Email == u.Email {
			return conflict("users_email_key")
		}
	}
	return nil
}

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.users[u.ID]; ok {
		return conflict("users_pkey")
	}
	if err := r.unique(u); err != nil {
		return err
	}
	r.st.users[u.ID] = *copyUser(*u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.st.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) Update(_ context.Context, u *models.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	cur, ok := r.st.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if err := r.unique(u); err != nil {
		return err
	}
	cur.Email = u.Email
	cur.PasswordHash = u.PasswordHash
	cur.PasswordSalt = bytes.Clone(u.PasswordSalt)
	cur.PublicKey = u.PublicKey
	cur.EncryptedPrivateKey = u.EncryptedPrivateKey
	cur.UpdatedAt = u.UpdatedAt
	r.st.users[u.ID] = cur
	return nil
}

// Delete mirrors the schema's foreign keys: owned groups block the delete,
// dependent rows cascade and message references are nulled.
func (r *userRepo) Delete(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.users[id]; !ok {
		return common.ErrorNotFound
	}
	for _, g := range r.st.groups {
		if g.OwnerID == id {
			return conflict("groups_owner_id_fkey")
		}
	}

	deleteWhere(r.st.sessions, func(s models.Session) bool { return s.UserID == id })
	deleteWhere(r.st.members, func(m models.Membership) bool { return m.UserID == id })
	deleteWhere(r.st.friendships, func(f models.Friendship) bool { return f.UserID1 == id || f.UserID2 == id })
	deleteWhere(r.st.reactions, func(rc models.Reaction) bool { return rc.UserID == id })
	deleteWhere(r.st.notifications, func(n models.Notification) bool { return n.UserID == id })
	for mid, m := range r.st.messages {
		if m.SentBy(id) {
			m.SenderID = nil
		}
		if m.AddressedTo(id) {
			m.RecipientID = nil
		}
		r.st.messages[mid] = m
	}
	delete(r.st.users, id)
	return nil
}

func (r *userRepo) Search(_ context.Context, prefix string, limit int) ([]*models.User, error) {
	var result []*models.User
	for _, u := range r.st.users {
		if strings.HasPrefix(u.Username, prefix) {
			result = append(result, copyUser(u))
		}
	}
	slices.SortFunc(result, func(a, b *models.User) int { return cmp.Compare(a.Username, b.Username) })
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func deleteWhere[K comparable, V any](m map[K]V, pred func(V) bool) int64 {
	var n int64
	for k, v := range m {
		if pred(v) {
			delete(m, k)
			n++
		}
	}
	return n
}
