package models

import "time"

// Group is a named conversation space with exactly one owner.
type Group struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// Membership roles assigned by the server. Owners may assign other role
// strings to members.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// MembershipKey is the composite key of a membership row.
type MembershipKey struct {
	GroupID string
	UserID  string
}

// Membership records that a user belongs to a group.
type Membership struct {
	MembershipKey
	Role     string
	JoinedAt time.Time
}
