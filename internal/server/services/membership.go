package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/validation"
)

// CascadeReport summarizes what DeleteUser changed besides the user row.
type CascadeReport struct {
	MessagesSenderMarked    int64
	MessagesRecipientMarked int64
	GroupsReassigned        map[string]string // group id -> new owner id
	GroupsDeleted           []string
}

// MembershipService keeps users, groups and memberships consistent: the
// user-deletion cascade, ownership transfer and member removal.
type MembershipService struct {
	store store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewMembershipService(st store.Store, log logging.Logger) *MembershipService {
	return &MembershipService{
		store: st,
		log:   log.With("module", "membership"),
		now:   time.Now,
	}
}

// DeleteUser removes a user and everything that depends on them in one
// transaction:
//
//  1. messages sent by the user keep DeletedSender = user, sender cleared;
//  2. messages addressed to the user keep DeletedRecipient = user;
//  3. each owned group passes to its longest-standing other member, or is
//     deleted with its messages when no other member remains;
//  4. the user's reactions, friendships, notifications, memberships and
//     sessions go, then the user row.
//
// Any failure rolls back every step.
func (s *MembershipService) DeleteUser(ctx context.Context, userID string) (*CascadeReport, error) {
	if err := validation.ID("user id", userID); err != nil {
		return nil, err
	}

	var report *CascadeReport
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		report = &CascadeReport{GroupsReassigned: map[string]string{}}

		if _, err := r.Users().GetByID(ctx, userID); err != nil {
			return notFound("user", err)
		}

		var err error
		if report.MessagesSenderMarked, err = r.Messages().MarkSenderDeleted(ctx, userID); err != nil {
			return err
		}
		if report.MessagesRecipientMarked, err = r.Messages().MarkRecipientDeleted(ctx, userID); err != nil {
			return err
		}

		owned, err := r.Groups().LockOwnedBy(ctx, userID)
		if err != nil {
			return err
		}
		for _, g := range owned {
			successor, err := s.resolveOwnedGroup(ctx, r, g, userID)
			if err != nil {
				return err
			}
			if successor == "" {
				report.GroupsDeleted = append(report.GroupsDeleted, g.ID)
			} else {
				report.GroupsReassigned[g.ID] = successor
			}
		}

		if _, err := r.Reactions().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Friendships().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Notifications().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Members().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Sessions().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return r.Users().Delete(ctx, userID)
	})
	if err != nil {
		s.log.Error(ctx, "user deletion rolled back", "user_id", userID, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "user deleted",
		"user_id", userID,
		"messages_sender_marked", report.MessagesSenderMarked,
		"messages_recipient_marked", report.MessagesRecipientMarked,
		"groups_reassigned", len(report.GroupsReassigned),
		"groups_deleted", len(report.GroupsDeleted),
	)
	return report, nil
}

// resolveOwnedGroup hands g to a successor or deletes it. It returns the
// successor id, or "" when the group was deleted.
func (s *MembershipService) resolveOwnedGroup(ctx context.Context, r store.Repositories, g *models.Group, departing string) (string, error) {
	members, err := r.Members().ListByGroup(ctx, g.ID)
	if err != nil {
		return "", err
	}

	// ListByGroup is ordered by join time, then user id.
	for _, m := range members {
		if m.UserID == departing {
			continue
		}
		if err := s.setOwner(ctx, r, g, m.UserID); err != nil {
			return "", err
		}
		return m.UserID, nil
	}

	if err := deleteGroup(ctx, r, g.ID); err != nil {
		return "", err
	}
	return "", nil
}

// deleteGroup removes a group and all rows hanging off it.
func deleteGroup(ctx context.Context, r store.Repositories, groupID string) error {
	if _, err := r.Reactions().DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := r.Messages().DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := r.Members().DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	return r.Groups().Delete(ctx, groupID)
}

// setOwner moves ownership of g to newOwnerID, who must already be a
// member, adjusts both roles and notifies the new owner.
func (s *MembershipService) setOwner(ctx context.Context, r store.Repositories, g *models.Group, newOwnerID string) error {
	now := s.now()
	if err := r.Groups().UpdateOwner(ctx, g.ID, newOwnerID); err != nil {
		return err
	}
	if err := r.Members().UpdateRole(ctx, models.MembershipKey{GroupID: g.ID, UserID: newOwnerID}, models.RoleOwner); err != nil {
		return err
	}

	previous := models.MembershipKey{GroupID: g.ID, UserID: g.OwnerID}
	if err := r.Members().UpdateRole(ctx, previous, models.RoleMember); err != nil && !isNotFound(err) {
		return err
	}

	return notify(ctx, r, newOwnerID, models.NotificationGroupOwner, g.ID, now)
}

// UpdateGroupOwner makes newOwnerID the owner of groupID. The group must
// exist and newOwnerID must hold a membership in it; both are checked under
// row locks in the same transaction as the write.
func (s *MembershipService) UpdateGroupOwner(ctx context.Context, groupID, newOwnerID string) error {
	return s.transfer(ctx, "", groupID, newOwnerID)
}

// TransferGroupOwnership is UpdateGroupOwner on behalf of actorID, who must
// be the current owner.
func (s *MembershipService) TransferGroupOwnership(ctx context.Context, actorID, groupID, newOwnerID string) error {
	if err := validation.ID("actor id", actorID); err != nil {
		return err
	}
	return s.transfer(ctx, actorID, groupID, newOwnerID)
}

func (s *MembershipService) transfer(ctx context.Context, actorID, groupID, newOwnerID string) error {
	if err := validation.First(validation.ID("group id", groupID), validation.ID("new owner id", newOwnerID)); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		g, err := r.Groups().GetForUpdate(ctx, groupID)
		if err != nil {
			return notFound("group", err)
		}
		if actorID != "" && g.OwnerID != actorID {
			return forbidden("only the group owner can transfer ownership")
		}

		_, err = r.Members().GetForUpdate(ctx, models.MembershipKey{GroupID: groupID, UserID: newOwnerID})
		if isNotFound(err) {
			return common.InvalidArgument("new owner must be a member")
		}
		if err != nil {
			return err
		}

		if g.OwnerID == newOwnerID {
			return nil
		}
		return s.setOwner(ctx, r, g, newOwnerID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "group owner updated", "group_id", groupID, "owner_id", newOwnerID)
	return nil
}

// RemoveMemberFromGroup deletes one membership. Ownership is left alone
// even when the removed member is the owner; only DeleteUser reassigns.
func (s *MembershipService) RemoveMemberFromGroup(ctx context.Context, groupID, userID string) error {
	if err := validation.First(validation.ID("group id", groupID), validation.ID("user id", userID)); err != nil {
		return err
	}
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		return removeMember(ctx, r, groupID, userID)
	})
}

func removeMember(ctx context.Context, r store.Repositories, groupID, userID string) error {
	err := r.Members().Delete(ctx, models.MembershipKey{GroupID: groupID, UserID: userID})
	return notFound("membership", err)
}
