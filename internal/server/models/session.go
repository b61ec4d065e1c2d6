package models

import "time"

// Session is a time-bounded authentication token bound to one user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ActiveAt reports whether the session may authenticate at now. A session
// whose expiry has passed is inert even if its row has not been swept yet.
func (s *Session) ActiveAt(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}
