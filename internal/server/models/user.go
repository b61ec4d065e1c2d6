// Package models defines server-side data models persisted in the store.
package models

import "time"

// User is a registered account. PasswordHash and PasswordSalt belong to the
// credential engine and are never rendered by transports.
type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	PasswordSalt        []byte
	PublicKey           string
	EncryptedPrivateKey string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserPatch carries the owner-editable profile fields; nil means unchanged.
type UserPatch struct {
	Email               *string
	PublicKey           *string
	EncryptedPrivateKey *string
}
