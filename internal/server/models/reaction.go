package models

import "time"

// ReactionKey is the full identity of a reaction; reactions have no other
// mutable state.
type ReactionKey struct {
	UserID    string
	MessageID string
	Emoji     string
}

type Reaction struct {
	ReactionKey
	CreatedAt time.Time
}
