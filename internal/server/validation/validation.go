// Package validation holds the field-level and cross-field rules applied
// before any mutating operation. Every function is pure: no I/O, no state.
// Violations wrap common.ErrorInvalidArgument with a readable reason.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

const (
	MaxUsernameLength         = 30
	MaxEmailLength            = 254
	MaxGroupNameLength        = 50
	MaxGroupRoleLength        = 50
	MaxEmojiLength            = 4
	MaxNotificationTypeLength = 15
	MaxMessageContentSize     = 64 << 10
)

// First returns the first non-nil error, so callers can chain checks.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func Username(s string) error {
	return text("username", s, MaxUsernameLength)
}

func Email(s string) error {
	if err := text("email", s, MaxEmailLength); err != nil {
		return err
	}
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return common.InvalidArgument("email must contain '@' and '.'")
	}
	return nil
}

// Password only rejects blank input. Strength comes from the hashing cost.
func Password(s string) error {
	if blank(s) {
		return common.InvalidArgument("password is required")
	}
	return nil
}

func FriendshipStatus(s models.FriendshipStatus) error {
	switch s {
	case models.FriendshipFriends, models.FriendshipPending, models.FriendshipUnknown:
		return nil
	}
	return common.InvalidArgument("friendship status must be one of FRD, PND, UNK")
}

// FriendshipLink rejects a relation of a user with themselves.
func FriendshipLink(userID1, userID2 string) error {
	if err := First(ID("user id", userID1), ID("user id", userID2)); err != nil {
		return err
	}
	if userID1 == userID2 {
		return common.InvalidArgument("a user cannot befriend themselves")
	}
	return nil
}

func GroupName(s string) error {
	return text("group name", s, MaxGroupNameLength)
}

func GroupRole(s string) error {
	return text("group role", s, MaxGroupRoleLength)
}

func Emoji(s string) error {
	return text("emoji", s, MaxEmojiLength)
}

func NotificationType(s string) error {
	return text("notification type", s, MaxNotificationTypeLength)
}

// ID requires an identifier argument to be present.
func ID(name, v string) error {
	if blank(v) {
		return common.InvalidArgument(name + " is required")
	}
	return nil
}

func MessageContent(b []byte) error {
	if len(b) == 0 {
		return common.InvalidArgument("message content is required")
	}
	if len(b) > MaxMessageContentSize {
		return common.InvalidArgument("message content is too large")
	}
	return nil
}

// MessageTarget requires exactly one of recipientID and groupID.
func MessageTarget(recipientID, groupID string) error {
	hasRecipient, hasGroup := !blank(recipientID), !blank(groupID)
	if hasRecipient == hasGroup {
		return common.InvalidArgument("exactly one of recipient id and group id must be set")
	}
	return nil
}

func text(name, s string, max int) error {
	if blank(s) {
		return common.InvalidArgument(name + " is required")
	}
	if utf8.RuneCountInString(s) > max {
		return common.InvalidArgument(name + " is too long")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
