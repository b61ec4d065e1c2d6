package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
)

// Requests.

type registerRequest struct {
	Username            string `json:"username"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	PublicKey           string `json:"public_key"`
	EncryptedPrivateKey string `json:"encrypted_private_key"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	SessionToken string `json:"session_token"`
}

type updateUserRequest struct {
	Email               *string `json:"email"`
	PublicKey           *string `json:"public_key"`
	EncryptedPrivateKey *string `json:"encrypted_private_key"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type groupRequest struct {
	Name string `json:"name"`
}

type ownerRequest struct {
	UserID string `json:"user_id"`
}

type memberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// Content travels base64-encoded; the server never looks inside it.
type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	GroupID     string `json:"group_id"`
	Content     []byte `json:"content"`
}

type editMessageRequest struct {
	Content []byte `json:"content"`
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

type friendRequest struct {
	UserID string `json:"user_id"`
}

type friendStatusRequest struct {
	Status models.FriendshipStatus `json:"status"`
}

type sweepRequest struct {
	Now *time.Time `json:"now"`
}

// Responses.

type userResponse struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email,omitempty"`
	PublicKey           string    `json:"public_key"`
	EncryptedPrivateKey string    `json:"encrypted_private_key,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ownUser renders the full profile of the caller.
func ownUser(u *models.User) userResponse {
	return userResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		PublicKey:           u.PublicKey,
		EncryptedPrivateKey: u.EncryptedPrivateKey,
		CreatedAt:           u.CreatedAt,
	}
}

// publicUser renders what other users may see.
func publicUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, PublicKey: u.PublicKey, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	SessionID            string    `json:"session_id"`
	SessionToken         string    `json:"session_token"`
	SessionExpiresAt     time.Time `json:"session_expires_at"`
}

func tokens(p *services.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:          p.AccessToken,
		AccessTokenExpiresAt: p.AccessTokenExpiresAt,
		SessionID:            p.SessionID,
		SessionToken:         p.SessionToken,
		SessionExpiresAt:     p.SessionExpiresAt,
	}
}

type sessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func group(g *models.Group) groupResponse {
	return groupResponse{ID: g.ID, Name: g.Name, OwnerID: g.OwnerID, CreatedAt: g.CreatedAt}
}

type memberResponse struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func member(m *models.Membership) memberResponse {
	return memberResponse{GroupID: m.GroupID, UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
}

type messageResponse struct {
	ID               string     `json:"id"`
	SenderID         *string    `json:"sender_id"`
	RecipientID      *string    `json:"recipient_id,omitempty"`
	GroupID          *string    `json:"group_id,omitempty"`
	IsGroup          bool       `json:"is_group"`
	Content          []byte     `json:"content,omitempty"`
	SentAt           time.Time  `json:"sent_at"`
	EditedAt         *time.Time `json:"edited_at,omitempty"`
	IsDeleted        bool       `json:"is_deleted"`
	DeletedSender    *string    `json:"deleted_sender,omitempty"`
	DeletedRecipient *string    `json:"deleted_recipient,omitempty"`
	HasAttachment    bool       `json:"has_attachment"`
}

func message(m *models.Message) messageResponse {
	return messageResponse{
		ID:               m.ID,
		SenderID:         m.SenderID,
		RecipientID:      m.RecipientID,
		GroupID:          m.GroupID,
		IsGroup:          m.IsGroup,
		Content:          m.Content,
		SentAt:           m.SentAt,
		EditedAt:         m.EditedAt,
		IsDeleted:        m.IsDeleted,
		DeletedSender:    m.DeletedSender,
		DeletedRecipient: m.DeletedRecipient,
		HasAttachment:    m.AttachmentKey != nil,
	}
}

type ticketResponse struct {
	MessageID  string    `json:"message_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func ticket(t *models.AttachmentTicket) ticketResponse {
	return ticketResponse{MessageID: t.MessageID, StorageKey: t.StorageKey, URL: t.URL, ExpiresAt: t.ExpiresAt}
}

type reactionResponse struct {
	UserID    string    `json:"user_id"`
	MessageID string    `json:"message_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

func reaction(r *models.Reaction) reactionResponse {
	return reactionResponse{UserID: r.UserID, MessageID: r.MessageID, Emoji: r.Emoji, CreatedAt: r.CreatedAt}
}

// friendshipResponse is rendered from the caller's side of the pair.
type friendshipResponse struct {
	UserID      string                  `json:"user_id"`
	Status      models.FriendshipStatus `json:"status"`
	RequestedBy string                  `json:"requested_by"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func friendship(me string) func(*models.Friendship) friendshipResponse {
	return func(f *models.Friendship) friendshipResponse {
		return friendshipResponse{
			UserID:      f.Other(me),
			Status:      f.Status,
			RequestedBy: f.RequestedBy,
			CreatedAt:   f.CreatedAt,
			UpdatedAt:   f.UpdatedAt,
		}
	}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func notification(n *models.Notification) notificationResponse {
	return notificationResponse{ID: n.ID, Type: n.Type, Content: n.Content, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
}

type sweepResponse struct {
	Removed bool `json:"removed"`
}

// list maps every element, returning an empty (not nil) slice so lists
// encode as [].
func list[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
