package models

import "time"

// Notification types emitted by the server.
const (
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationGroupInvite   = "GROUP_INVITE"
	NotificationGroupOwner    = "GROUP_OWNER"
)

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}
