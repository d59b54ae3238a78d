package services

import (
	"context"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"
	"wellnest/websocket"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GroupService struct {
	groupRepo         *repositories.GroupRepository
	userRepo          *repositories.UserRepository
	hub               *websocket.Hub
	validator         *utils.ValidationService
	defaultMaxMembers int
}

func NewGroupService(
	groupRepo *repositories.GroupRepository,
	userRepo *repositories.UserRepository,
	hub *websocket.Hub,
	defaultMaxMembers int,
) *GroupService {
	if defaultMaxMembers <= 0 {
		defaultMaxMembers = models.DefaultMaxGroupMembers
	}

	return &GroupService{
		groupRepo:         groupRepo,
		userRepo:          userRepo,
		hub:               hub,
		validator:         utils.NewValidationService(),
		defaultMaxMembers: defaultMaxMembers,
	}
}

func (s *GroupService) Create(ctx context.Context, userID string, req models.CreateGroupRequest) (*models.Group, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = s.defaultMaxMembers
	}

	now := time.Now()
	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Privacy:     req.Privacy,
		MaxMembers:  maxMembers,
		Members: []models.GroupMember{{
			UserID:   ownerID,
			Role:     models.GroupRoleAdmin,
			IsActive: true,
			JoinedAt: now,
		}},
	}

	if err := s.groupRepo.Create(ctx, &group); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddGroupMembership(ctx, ownerID, models.GroupMembership{
		GroupID:  group.ID,
		Role:     models.GroupRoleAdmin,
		JoinedAt: now,
	}); err != nil {
		logrus.Warnf("group membership write failed for creator %s: %v", userID, err)
	}

	return &group, nil
}

func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	if group.Privacy == models.GroupPrivacyPrivate && !group.IsActiveMember(memberID) {
		return nil, errors.New("access denied")
	}

	return group, nil
}

func (s *GroupService) Update(ctx context.Context, userID, groupID string, req models.UpdateGroupRequest) (*models.Group, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	group, err := s.requireModerator(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Privacy != nil {
		update["privacy"] = *req.Privacy
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers < group.ActiveMemberCount() {
			return nil, errors.New("max members below current member count")
		}
		update["maxMembers"] = *req.MaxMembers
	}
	if len(update) == 0 {
		return nil, errors.New("no fields to update")
	}

	if err := s.groupRepo.Update(ctx, groupID, update); err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, groupID)
}

func (s *GroupService) ListPublic(ctx context.Context, limit int) ([]models.Group, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.groupRepo.ListPublic(ctx, limit)
}

func (s *GroupService) ListMine(ctx context.Context, userID string) ([]models.Group, error) {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}
	return s.groupRepo.ListForUser(ctx, memberID)
}

// Join adds the user as an active member. Capacity and privacy rules are
// checked against the freshly loaded group; the membership write reuses
// the soft-removed entry when one exists.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) error {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	hadEntry := group.MemberEntry(memberID) != nil

	now := time.Now()
	if err := group.Join(memberID, now); err != nil {
		return err
	}

	if hadEntry {
		err = s.groupRepo.SetMemberActive(ctx, group.ID, memberID, true, now)
	} else {
		err = s.groupRepo.PushMember(ctx, group.ID, models.GroupMember{
			UserID:   memberID,
			Role:     models.GroupRoleMember,
			IsActive: true,
			JoinedAt: now,
		})
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.AddGroupMembership(ctx, memberID, models.GroupMembership{
		GroupID:  group.ID,
		Role:     models.GroupRoleMember,
		JoinedAt: now,
	}); err != nil {
		logrus.Warnf("group membership write failed for user %s: %v", userID, err)
	}

	return nil
}

// Leave soft-deactivates the membership so rejoin keeps history.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if err := group.Leave(memberID); err != nil {
		return err
	}

	if err := s.groupRepo.SetMemberActive(ctx, group.ID, memberID, false, time.Time{}); err != nil {
		return err
	}

	if err := s.userRepo.RemoveGroupMembership(ctx, memberID, group.ID); err != nil {
		logrus.Warnf("group membership removal failed for user %s: %v", userID, err)
	}

	return nil
}

// Invite records a pending invitation and notifies the invitee.
// Private groups only accept members through invitations, so the
// invitation entry is the authorization AcceptInvitation later consumes.
func (s *GroupService) Invite(ctx context.Context, userID, groupID, inviteeID string) error {
	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return err
	}

	inviterID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}
	targetID, err := primitive.ObjectIDFromHex(inviteeID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	if group.ActiveMemberCount() >= group.MaxMembers {
		return models.ErrGroupFull
	}

	// Invitee must exist before we record anything
	if _, err := s.userRepo.GetByID(ctx, inviteeID); err != nil {
		return err
	}

	now := time.Now()
	if err := group.AddInvitation(targetID, inviterID, now); err != nil {
		return err
	}
	if err := s.groupRepo.PushInvitation(ctx, group.ID, *group.InvitationFor(targetID)); err != nil {
		return err
	}

	s.hub.SendToUser(inviteeID, models.WSMessage{
		Type: models.WSEventGroupInvitation,
		Data: models.WSGroupInvitation{
			GroupID:   group.ID.Hex(),
			GroupName: group.Name,
			InvitedBy: userID,
			Timestamp: now,
		},
		UserID:    inviteeID,
		Timestamp: now,
	})

	return nil
}

// AcceptInvitation joins a group on the strength of a recorded
// invitation. The pending entry is the only thing that lets a caller
// past the public-only rule direct joins enforce, and it is consumed
// here so it cannot be replayed.
func (s *GroupService) AcceptInvitation(ctx context.Context, userID, groupID string) error {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if group.InvitationFor(memberID) == nil {
		return models.ErrNotInvited
	}
	if group.IsActiveMember(memberID) {
		return models.ErrAlreadyMember
	}
	if group.ActiveMemberCount() >= group.MaxMembers {
		return models.ErrGroupFull
	}

	if err := s.groupRepo.PullInvitation(ctx, group.ID, memberID); err != nil {
		return err
	}

	now := time.Now()
	if group.MemberEntry(memberID) != nil {
		err = s.groupRepo.SetMemberActive(ctx, group.ID, memberID, true, now)
	} else {
		err = s.groupRepo.PushMember(ctx, group.ID, models.GroupMember{
			UserID:   memberID,
			Role:     models.GroupRoleMember,
			IsActive: true,
			JoinedAt: now,
		})
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.AddGroupMembership(ctx, memberID, models.GroupMembership{
		GroupID:  group.ID,
		Role:     models.GroupRoleMember,
		JoinedAt: now,
	}); err != nil {
		logrus.Warnf("group membership write failed for user %s: %v", userID, err)
	}

	return nil
}

// ============================================================================
// CHALLENGES
// ============================================================================

func (s *GroupService) CreateChallenge(ctx context.Context, userID, groupID string, req models.CreateChallengeRequest) (*models.Challenge, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	group, err := s.requireModerator(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	creatorID, _ := primitive.ObjectIDFromHex(userID)

	now := time.Now()
	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = now
	}
	if !req.EndsAt.After(startsAt) {
		return nil, errors.New("challenge end must be after start")
	}

	challenge := models.Challenge{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		StartsAt:    startsAt,
		EndsAt:      req.EndsAt,
		IsActive:    true,
		CreatedBy:   creatorID,
		Participants: []models.ChallengeParticipant{{
			UserID:   creatorID,
			JoinedAt: now,
		}},
		CreatedAt: now,
	}

	if err := s.groupRepo.PushChallenge(ctx, group.ID, challenge); err != nil {
		return nil, err
	}

	return &challenge, nil
}

func (s *GroupService) JoinChallenge(ctx context.Context, userID, groupID, challengeID string) error {
	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return err
	}

	memberID, _ := primitive.ObjectIDFromHex(userID)
	chID, err := primitive.ObjectIDFromHex(challengeID)
	if err != nil {
		return errors.New("invalid challenge ID")
	}

	challenge := group.ChallengeByID(chID)
	if challenge == nil {
		return models.ErrChallengeNotFound
	}
	if !challenge.IsActive {
		return errors.New("challenge has ended")
	}

	return s.groupRepo.PushChallengeParticipant(ctx, group.ID, chID, models.ChallengeParticipant{
		UserID:   memberID,
		JoinedAt: time.Now(),
	})
}

// UpdateChallengeProgress raises the caller's progress and broadcasts the
// new state to the group room. Progress never regresses, is capped at the
// target, and completion sticks once reached.
func (s *GroupService) UpdateChallengeProgress(ctx context.Context, userID, groupID, challengeID string, req models.ChallengeProgressRequest) (*models.ChallengeParticipant, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	memberID, _ := primitive.ObjectIDFromHex(userID)
	chID, err := primitive.ObjectIDFromHex(challengeID)
	if err != nil {
		return nil, errors.New("invalid challenge ID")
	}

	challenge := group.ChallengeByID(chID)
	if challenge == nil {
		return nil, models.ErrChallengeNotFound
	}
	if !challenge.IsActive {
		return nil, errors.New("challenge has ended")
	}

	now := time.Now()
	participant, err := challenge.ApplyProgress(memberID, req.Progress, now)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.SetParticipantProgress(ctx, group.ID, chID, *participant); err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(websocket.GroupRoom(groupID), models.WSMessage{
		Type: models.WSEventChallengeProgress,
		Data: models.WSChallengeProgress{
			GroupID:     groupID,
			ChallengeID: challengeID,
			UserID:      userID,
			Progress:    participant.Progress,
			Target:      challenge.Goal.Target,
			IsCompleted: participant.IsCompleted,
			Timestamp:   now,
		},
		GroupID:   groupID,
		Timestamp: now,
	})

	return participant, nil
}

func (s *GroupService) GetChallenge(ctx context.Context, userID, groupID, challengeID string) (*models.Challenge, error) {
	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	chID, err := primitive.ObjectIDFromHex(challengeID)
	if err != nil {
		return nil, errors.New("invalid challenge ID")
	}

	challenge := group.ChallengeByID(chID)
	if challenge == nil {
		return nil, models.ErrChallengeNotFound
	}

	return challenge, nil
}

// ============================================================================
// POSTS
// ============================================================================

func (s *GroupService) CreatePost(ctx context.Context, userID, groupID string, req models.CreatePostRequest) (*models.GroupPost, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	authorID, _ := primitive.ObjectIDFromHex(userID)

	post := models.GroupPost{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      req.Text,
		Reactions: []models.PostReaction{},
		Comments:  []models.ActivityComment{},
		CreatedAt: time.Now(),
	}

	if err := s.groupRepo.PushPost(ctx, group.ID, post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *GroupService) ListPosts(ctx context.Context, userID, groupID string) ([]models.GroupPost, error) {
	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	return group.Posts, nil
}

// ReactToPost records the user's reaction, replacing any earlier one.
func (s *GroupService) ReactToPost(ctx context.Context, userID, groupID, postID string, req models.PostReactionRequest) error {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return errors.New("validation failed")
	}

	group, err := s.requireActiveMember(ctx, userID, groupID)
	if err != nil {
		return err
	}

	memberID, _ := primitive.ObjectIDFromHex(userID)
	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return errors.New("invalid post ID")
	}

	if group.PostByID(pID) == nil {
		return errors.New("post not found")
	}

	return s.groupRepo.SetPostReaction(ctx, group.ID, pID, models.PostReaction{
		UserID: memberID,
		Kind:   req.Kind,
	})
}

func (s *GroupService) requireActiveMember(ctx context.Context, userID, groupID string) (*models.Group, error) {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !group.IsActiveMember(memberID) {
		return nil, models.ErrNotMember
	}

	return group, nil
}

func (s *GroupService) requireModerator(ctx context.Context, userID, groupID string) (*models.Group, error) {
	memberID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !group.CanModerate(memberID) {
		return nil, errors.New("access denied")
	}

	return group, nil
}
