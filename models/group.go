package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Group struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,min=2,max=60"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Privacy     string             `json:"privacy" bson:"privacy"` // public, private
	MaxMembers  int                `json:"maxMembers" bson:"maxMembers"`

	Members     []GroupMember     `json:"members" bson:"members"`
	Invitations []GroupInvitation `json:"invitations,omitempty" bson:"invitations,omitempty"`
	Challenges  []Challenge       `json:"challenges" bson:"challenges"`
	Posts       []GroupPost       `json:"posts" bson:"posts"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type GroupMember struct {
	UserID   primitive.ObjectID `json:"userId" bson:"userId"`
	Role     string             `json:"role" bson:"role"` // admin, moderator, member
	IsActive bool               `json:"isActive" bson:"isActive"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt"`
}

type GroupInvitation struct {
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	InvitedBy primitive.ObjectID `json:"invitedBy" bson:"invitedBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Challenge struct {
	ID           primitive.ObjectID     `json:"id" bson:"id"`
	Title        string                 `json:"title" bson:"title"`
	Description  string                 `json:"description,omitempty" bson:"description,omitempty"`
	Goal         ChallengeGoal          `json:"goal" bson:"goal"`
	StartsAt     time.Time              `json:"startsAt" bson:"startsAt"`
	EndsAt       time.Time              `json:"endsAt" bson:"endsAt"`
	IsActive     bool                   `json:"isActive" bson:"isActive"`
	CreatedBy    primitive.ObjectID     `json:"createdBy" bson:"createdBy"`
	Participants []ChallengeParticipant `json:"participants" bson:"participants"`
	CreatedAt    time.Time              `json:"createdAt" bson:"createdAt"`
}

type ChallengeGoal struct {
	Target int    `json:"target" bson:"target" validate:"required,min=1"`
	Unit   string `json:"unit" bson:"unit" validate:"required"` // activities, minutes, days
}

type ChallengeParticipant struct {
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Progress    int                `json:"progress" bson:"progress"`
	IsCompleted bool               `json:"isCompleted" bson:"isCompleted"`
	CompletedAt time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	JoinedAt    time.Time          `json:"joinedAt" bson:"joinedAt"`
}

type GroupPost struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	AuthorID  primitive.ObjectID `json:"authorId" bson:"authorId"`
	Text      string             `json:"text" bson:"text"`
	Reactions []PostReaction     `json:"reactions" bson:"reactions"`
	Comments  []ActivityComment  `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type PostReaction struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Kind   string             `json:"kind" bson:"kind"` // cheer, heart, clap
}

// Request DTOs
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=500"`
	Privacy     string `json:"privacy" validate:"required,oneof=public private"`
	MaxMembers  int    `json:"maxMembers" validate:"omitempty,min=2,max=500"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=60"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Privacy     *string `json:"privacy,omitempty" validate:"omitempty,oneof=public private"`
	MaxMembers  *int    `json:"maxMembers,omitempty" validate:"omitempty,min=2,max=500"`
}

type CreateChallengeRequest struct {
	Title       string        `json:"title" validate:"required,min=2,max=120"`
	Description string        `json:"description" validate:"max=1000"`
	Goal        ChallengeGoal `json:"goal" validate:"required"`
	StartsAt    time.Time     `json:"startsAt"`
	EndsAt      time.Time     `json:"endsAt" validate:"required"`
}

type ChallengeProgressRequest struct {
	Progress int `json:"progress" validate:"required,min=1"`
}

type CreatePostRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type PostReactionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=cheer heart clap"`
}

// Group roles
const (
	GroupRoleAdmin     = "admin"
	GroupRoleModerator = "moderator"
	GroupRoleMember    = "member"
)

// Group privacy
const (
	GroupPrivacyPublic  = "public"
	GroupPrivacyPrivate = "private"
)

const DefaultMaxGroupMembers = 50

var (
	ErrGroupFull            = errors.New("group is full")
	ErrGroupPrivate         = errors.New("group is private")
	ErrAlreadyMember        = errors.New("already an active member")
	ErrNotMember            = errors.New("not a group member")
	ErrNotInvited           = errors.New("no pending invitation")
	ErrAlreadyInvited       = errors.New("invitation already pending")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrNotParticipant       = errors.New("not a challenge participant")
	ErrAlreadyParticipating = errors.New("already participating in challenge")
)

// MemberEntry returns the membership entry for userID, active or not.
func (g *Group) MemberEntry(userID primitive.ObjectID) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsActiveMember reports whether userID holds an active membership.
func (g *Group) IsActiveMember(userID primitive.ObjectID) bool {
	entry := g.MemberEntry(userID)
	return entry != nil && entry.IsActive
}

// ActiveMemberCount counts memberships with isActive=true.
func (g *Group) ActiveMemberCount() int {
	count := 0
	for _, m := range g.Members {
		if m.IsActive {
			count++
		}
	}
	return count
}

// CanModerate reports whether userID is an active admin or moderator.
func (g *Group) CanModerate(userID primitive.ObjectID) bool {
	entry := g.MemberEntry(userID)
	if entry == nil || !entry.IsActive {
		return false
	}
	return entry.Role == GroupRoleAdmin || entry.Role == GroupRoleModerator
}

// Join appends a member entry or reactivates a soft-removed one. Private
// groups reject direct joins; joining at capacity is rejected, joining at
// capacity-1 fills the group.
func (g *Group) Join(userID primitive.ObjectID, at time.Time) error {
	if g.Privacy == GroupPrivacyPrivate {
		return ErrGroupPrivate
	}

	if entry := g.MemberEntry(userID); entry != nil {
		if entry.IsActive {
			return ErrAlreadyMember
		}
		if g.ActiveMemberCount() >= g.MaxMembers {
			return ErrGroupFull
		}
		entry.IsActive = true
		entry.JoinedAt = at
		return nil
	}

	if g.ActiveMemberCount() >= g.MaxMembers {
		return ErrGroupFull
	}

	g.Members = append(g.Members, GroupMember{
		UserID:   userID,
		Role:     GroupRoleMember,
		IsActive: true,
		JoinedAt: at,
	})
	return nil
}

// Leave soft-deactivates the membership entry.
func (g *Group) Leave(userID primitive.ObjectID) error {
	entry := g.MemberEntry(userID)
	if entry == nil || !entry.IsActive {
		return ErrNotMember
	}
	entry.IsActive = false
	return nil
}

// InvitationFor returns the pending invitation for userID, if any.
func (g *Group) InvitationFor(userID primitive.ObjectID) *GroupInvitation {
	for i := range g.Invitations {
		if g.Invitations[i].UserID == userID {
			return &g.Invitations[i]
		}
	}
	return nil
}

// AddInvitation records a pending invitation. Active members and
// already-invited users are rejected.
func (g *Group) AddInvitation(userID, invitedBy primitive.ObjectID, at time.Time) error {
	if g.IsActiveMember(userID) {
		return ErrAlreadyMember
	}
	if g.InvitationFor(userID) != nil {
		return ErrAlreadyInvited
	}
	g.Invitations = append(g.Invitations, GroupInvitation{
		UserID:    userID,
		InvitedBy: invitedBy,
		CreatedAt: at,
	})
	return nil
}

// RemoveInvitation consumes the pending invitation for userID. Returns
// false when none existed.
func (g *Group) RemoveInvitation(userID primitive.ObjectID) bool {
	for i := range g.Invitations {
		if g.Invitations[i].UserID == userID {
			g.Invitations = append(g.Invitations[:i], g.Invitations[i+1:]...)
			return true
		}
	}
	return false
}

// ChallengeByID finds an embedded challenge.
func (g *Group) ChallengeByID(challengeID primitive.ObjectID) *Challenge {
	for i := range g.Challenges {
		if g.Challenges[i].ID == challengeID {
			return &g.Challenges[i]
		}
	}
	return nil
}

// PostByID finds an embedded post.
func (g *Group) PostByID(postID primitive.ObjectID) *GroupPost {
	for i := range g.Posts {
		if g.Posts[i].ID == postID {
			return &g.Posts[i]
		}
	}
	return nil
}

// ParticipantFor returns the participant entry for userID, if any.
func (c *Challenge) ParticipantFor(userID primitive.ObjectID) *ChallengeParticipant {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// AddParticipant enrolls userID with zero progress.
func (c *Challenge) AddParticipant(userID primitive.ObjectID, at time.Time) error {
	if c.ParticipantFor(userID) != nil {
		return ErrAlreadyParticipating
	}
	c.Participants = append(c.Participants, ChallengeParticipant{
		UserID:   userID,
		JoinedAt: at,
	})
	return nil
}

// ApplyProgress raises the participant's progress. Progress never
// regresses and is capped at the goal target; completion is sticky once
// progress reaches the target.
func (c *Challenge) ApplyProgress(userID primitive.ObjectID, progress int, at time.Time) (*ChallengeParticipant, error) {
	participant := c.ParticipantFor(userID)
	if participant == nil {
		return nil, ErrNotParticipant
	}

	if progress > participant.Progress {
		participant.Progress = progress
	}
	if participant.Progress > c.Goal.Target {
		participant.Progress = c.Goal.Target
	}

	if !participant.IsCompleted && participant.Progress >= c.Goal.Target {
		participant.IsCompleted = true
		participant.CompletedAt = at
	}

	return participant, nil
}

// React records or replaces the user's reaction on a post.
func (p *GroupPost) React(userID primitive.ObjectID, kind string) {
	for i := range p.Reactions {
		if p.Reactions[i].UserID == userID {
			p.Reactions[i].Kind = kind
			return
		}
	}
	p.Reactions = append(p.Reactions, PostReaction{UserID: userID, Kind: kind})
}
