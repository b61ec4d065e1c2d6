package models

import "time"

// FriendshipStatus is one of FRD (friends), PND (pending) or UNK.
type FriendshipStatus string

const (
	FriendshipFriends FriendshipStatus = "FRD"
	FriendshipPending FriendshipStatus = "PND"
	FriendshipUnknown FriendshipStatus = "UNK"
)

// FriendshipKey identifies the symmetric relation between two users. It is
// always stored with the smaller id first.
type FriendshipKey struct {
	UserID1 string
	UserID2 string
}

// NewFriendshipKey returns the canonical key for the pair (a, b).
func NewFriendshipKey(a, b string) FriendshipKey {
	if b < a {
		a, b = b, a
	}
	return FriendshipKey{UserID1: a, UserID2: b}
}

// Other returns the member of the pair that is not userID.
func (k FriendshipKey) Other(userID string) string {
	if k.UserID1 == userID {
		return k.UserID2
	}
	return k.UserID1
}

type Friendship struct {
	FriendshipKey
	Status      FriendshipStatus
	RequestedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
