package models

import "time"

// AttachmentTicket hands a client a temporary presigned URL for the
// ciphertext blob attached to a message. The blob itself lives in object
// storage under StorageKey.
type AttachmentTicket struct {
	MessageID  string
	StorageKey string
	URL        string
	ExpiresAt  time.Time
}
