package models

import "time"

// Message is a direct or group message. Exactly one of RecipientID and
// GroupID is set when the message is created; IsGroup mirrors which.
//
// When a referenced user is deleted, SenderID/RecipientID are cleared and
// DeletedSender/DeletedRecipient keep the removed user's id for audit.
// The markers are set once and never cleared.
type Message struct {
	ID               string
	SenderID         *string
	RecipientID      *string
	GroupID          *string
	IsGroup          bool
	Content          []byte
	SentAt           time.Time
	EditedAt         *time.Time
	IsDeleted        bool
	DeletedSender    *string
	DeletedRecipient *string
	AttachmentKey    *string
}

// SentBy reports whether userID is the (still existing) sender.
func (m *Message) SentBy(userID string) bool {
	return m.SenderID != nil && *m.SenderID == userID
}

// AddressedTo reports whether userID is the direct recipient.
func (m *Message) AddressedTo(userID string) bool {
	return m.RecipientID != nil && *m.RecipientID == userID
}
