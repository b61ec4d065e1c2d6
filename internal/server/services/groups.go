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

type GroupService struct {
	store store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewGroupService(st store.Store, log logging.Logger) *GroupService {
	return &GroupService{
		store: st,
		log:   log.With("module", "groups"),
		now:   time.Now,
	}
}

// CreateGroup creates the group and the owner's membership together.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID, name string) (*models.Group, error) {
	if err := validation.First(validation.ID("owner id", ownerID), validation.GroupName(name)); err != nil {
		return nil, err
	}

	now := s.now()
	g := &models.Group{ID: newID(), Name: name, OwnerID: ownerID, CreatedAt: now}
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := r.Users().GetByID(ctx, ownerID); err != nil {
			return notFound("user", err)
		}
		if err := r.Groups().Create(ctx, g); err != nil {
			return err
		}
		return r.Members().Add(ctx, &models.Membership{
			MembershipKey: models.MembershipKey{GroupID: g.ID, UserID: ownerID},
			Role:          models.RoleOwner,
			JoinedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "group created", "group_id", g.ID, "owner_id", ownerID)
	return g, nil
}

// requireMember fails with ErrorForbidden unless userID belongs to the group.
func requireMember(ctx context.Context, r store.Repositories, groupID, userID string) (*models.Membership, error) {
	m, err := r.Members().Get(ctx, models.MembershipKey{GroupID: groupID, UserID: userID})
	if isNotFound(err) {
		return nil, forbidden("not a member of the group")
	}
	return m, err
}

// ownedGroup loads the group for update and checks actorID owns it.
func ownedGroup(ctx context.Context, r store.Repositories, groupID, actorID string) (*models.Group, error) {
	g, err := r.Groups().GetForUpdate(ctx, groupID)
	if err != nil {
		return nil, notFound("group", err)
	}
	if g.OwnerID != actorID {
		return nil, forbidden("only the group owner can do this")
	}
	return g, nil
}

// GetGroup is visible to members only.
func (s *GroupService) GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	var g *models.Group
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		if g, err = r.Groups().GetByID(ctx, groupID); err != nil {
			return notFound("group", err)
		}
		_, err = requireMember(ctx, r, groupID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	var result []*models.Group
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		var err error
		result, err = r.Groups().ListForMember(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *GroupService) RenameGroup(ctx context.Context, actorID, groupID, name string) (*models.Group, error) {
	if err := validation.GroupName(name); err != nil {
		return nil, err
	}
	var g *models.Group
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		var err error
		if g, err = ownedGroup(ctx, r, groupID, actorID); err != nil {
			return err
		}
		g.Name = name
		return r.Groups().UpdateName(ctx, groupID, name)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGroup removes the group with its messages, reactions and
// memberships. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	err := s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := ownedGroup(ctx, r, groupID, actorID); err != nil {
			return err
		}
		return deleteGroup(ctx, r, groupID)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "group deleted", "group_id", groupID, "actor_id", actorID)
	return nil
}

func (s *GroupService) ListMembers(ctx context.Context, actorID, groupID string) ([]*models.Membership, error) {
	var result []*models.Membership
	err := s.store.Read(ctx, func(ctx context.Context, r store.Repositories) error {
		if _, err := r.Groups().GetByID(ctx, groupID); err != nil {
			return notFound("group", err)
		}
		if _, err := requireMember(ctx, r, groupID, actorID); err != nil {
			return err
		}
		var err error
		result, err = r.Members().ListByGroup(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// assignableRole defaults an empty role and keeps the owner role reserved
// for ownership transfer.
func assignableRole(role string) (string, error) {
	if role == "" {
		return models.RoleMember, nil
	}
	if err := validation.GroupRole(role); err != nil {
		return "", err
	}
	if role == models.RoleOwner {
		return "", common.InvalidArgument("the owner role is assigned by ownership transfer")
	}
	return role, nil
}

// AddMember lets the owner add userID with role. The new member receives
// a GROUP_INVITE notification carrying the group id.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID, userID, role string) (*models.Membership, error) {
	role, err := assignableRole(role)
	if err != nil {
		return nil, err
	}
	if err := validation.ID("user id", userID); err != nil {
		return nil, err
	}

	now := s.now()
	m := &models.Membership{
		MembershipKey: models.MembershipKey{GroupID: groupID, UserID: userID},
		Role:          role,
		JoinedAt:      now,
	}
	err = s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		if _, err := ownedGroup(ctx, r, groupID, actorID); err != nil {
			return err
		}
		if _, err := r.Users().GetByID(ctx, userID); err != nil {
			return notFound("user", err)
		}
		if err := r.Members().Add(ctx, m); err != nil {
			return err
		}
		return notify(ctx, r, userID, models.NotificationGroupInvite, groupID, now)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *GroupService) UpdateMemberRole(ctx context.Context, actorID, groupID, userID, role string) error {
	if role == "" {
		return common.InvalidArgument("group role is required")
	}
	role, err := assignableRole(role)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		g, err := ownedGroup(ctx, r, groupID, actorID)
		if err != nil {
			return err
		}
		if userID == g.OwnerID {
			return common.InvalidArgument("the owner's role changes only with ownership")
		}
		err = r.Members().UpdateRole(ctx, models.MembershipKey{GroupID: groupID, UserID: userID}, role)
		return notFound("membership", err)
	})
}

// RemoveMember lets the owner remove anyone and any member remove
// themselves. Removing the owner's membership does not change ownership.
func (s *GroupService) RemoveMember(ctx context.Context, actorID, groupID, userID string) error {
	if err := validation.First(validation.ID("group id", groupID), validation.ID("user id", userID)); err != nil {
		return err
	}
	return s.store.WithTx(ctx, true, func(ctx context.Context, r store.Repositories) error {
		g, err := r.Groups().GetForUpdate(ctx, groupID)
		if err != nil {
			return notFound("group", err)
		}
		if actorID != userID && actorID != g.OwnerID {
			return forbidden("only the owner can remove other members")
		}
		return removeMember(ctx, r, groupID, userID)
	})
}
