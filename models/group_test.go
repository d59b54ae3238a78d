package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestGroup(maxMembers int) *Group {
	owner := primitive.NewObjectID()
	return &Group{
		ID:         primitive.NewObjectID(),
		Name:       "Morning Walkers",
		OwnerID:    owner,
		Privacy:    GroupPrivacyPublic,
		MaxMembers: maxMembers,
		Members: []GroupMember{
			{UserID: owner, Role: GroupRoleAdmin, IsActive: true, JoinedAt: time.Now()},
		},
	}
}

func TestGroupJoin(t *testing.T) {
	now := time.Now()

	t.Run("new member joins public group", func(t *testing.T) {
		g := newTestGroup(10)
		userID := primitive.NewObjectID()

		require.NoError(t, g.Join(userID, now))
		assert.True(t, g.IsActiveMember(userID))
		assert.Equal(t, 2, g.ActiveMemberCount())

		entry := g.MemberEntry(userID)
		require.NotNil(t, entry)
		assert.Equal(t, GroupRoleMember, entry.Role)
	})

	t.Run("joining twice fails", func(t *testing.T) {
		g := newTestGroup(10)
		userID := primitive.NewObjectID()

		require.NoError(t, g.Join(userID, now))
		assert.ErrorIs(t, g.Join(userID, now), ErrAlreadyMember)
	})

	t.Run("private group rejects direct join", func(t *testing.T) {
		g := newTestGroup(10)
		g.Privacy = GroupPrivacyPrivate

		assert.ErrorIs(t, g.Join(primitive.NewObjectID(), now), ErrGroupPrivate)
	})

	t.Run("joining at capacity minus one fills the group", func(t *testing.T) {
		g := newTestGroup(2)
		require.NoError(t, g.Join(primitive.NewObjectID(), now))
		assert.Equal(t, 2, g.ActiveMemberCount())
	})

	t.Run("joining at capacity fails", func(t *testing.T) {
		g := newTestGroup(2)
		require.NoError(t, g.Join(primitive.NewObjectID(), now))
		assert.ErrorIs(t, g.Join(primitive.NewObjectID(), now), ErrGroupFull)
	})

	t.Run("rejoin reactivates the old entry", func(t *testing.T) {
		g := newTestGroup(10)
		userID := primitive.NewObjectID()

		require.NoError(t, g.Join(userID, now))
		require.NoError(t, g.Leave(userID))
		assert.False(t, g.IsActiveMember(userID))

		later := now.Add(time.Hour)
		require.NoError(t, g.Join(userID, later))
		assert.True(t, g.IsActiveMember(userID))
		assert.Len(t, g.Members, 2) // no duplicate entry
		assert.Equal(t, later, g.MemberEntry(userID).JoinedAt)
	})

	t.Run("inactive members do not count toward capacity", func(t *testing.T) {
		g := newTestGroup(2)
		gone := primitive.NewObjectID()
		require.NoError(t, g.Join(gone, now))
		require.NoError(t, g.Leave(gone))

		assert.NoError(t, g.Join(primitive.NewObjectID(), now))
	})
}

func TestGroupInvitations(t *testing.T) {
	now := time.Now()

	t.Run("uninvited user has no pending invitation", func(t *testing.T) {
		g := newTestGroup(10)
		g.Privacy = GroupPrivacyPrivate

		// The accept path admits strictly on this lookup; without a
		// recorded invitation a private group stays closed.
		assert.Nil(t, g.InvitationFor(primitive.NewObjectID()))
	})

	t.Run("invite records a pending entry", func(t *testing.T) {
		g := newTestGroup(10)
		invitee := primitive.NewObjectID()

		require.NoError(t, g.AddInvitation(invitee, g.OwnerID, now))

		entry := g.InvitationFor(invitee)
		require.NotNil(t, entry)
		assert.Equal(t, g.OwnerID, entry.InvitedBy)
		assert.Equal(t, now, entry.CreatedAt)
	})

	t.Run("duplicate invitation is rejected", func(t *testing.T) {
		g := newTestGroup(10)
		invitee := primitive.NewObjectID()

		require.NoError(t, g.AddInvitation(invitee, g.OwnerID, now))
		assert.ErrorIs(t, g.AddInvitation(invitee, g.OwnerID, now), ErrAlreadyInvited)
	})

	t.Run("inviting an active member is rejected", func(t *testing.T) {
		g := newTestGroup(10)
		member := primitive.NewObjectID()
		require.NoError(t, g.Join(member, now))

		assert.ErrorIs(t, g.AddInvitation(member, g.OwnerID, now), ErrAlreadyMember)
	})

	t.Run("accepting consumes the invitation", func(t *testing.T) {
		g := newTestGroup(10)
		invitee := primitive.NewObjectID()

		require.NoError(t, g.AddInvitation(invitee, g.OwnerID, now))
		assert.True(t, g.RemoveInvitation(invitee))

		// Consumed invitations cannot be replayed.
		assert.Nil(t, g.InvitationFor(invitee))
		assert.False(t, g.RemoveInvitation(invitee))
	})
}

func TestGroupLeave(t *testing.T) {
	g := newTestGroup(10)
	userID := primitive.NewObjectID()

	assert.ErrorIs(t, g.Leave(userID), ErrNotMember)

	require.NoError(t, g.Join(userID, time.Now()))
	require.NoError(t, g.Leave(userID))
	assert.ErrorIs(t, g.Leave(userID), ErrNotMember)
}

func TestGroupCanModerate(t *testing.T) {
	g := newTestGroup(10)
	member := primitive.NewObjectID()
	moderator := primitive.NewObjectID()

	g.Members = append(g.Members,
		GroupMember{UserID: member, Role: GroupRoleMember, IsActive: true},
		GroupMember{UserID: moderator, Role: GroupRoleModerator, IsActive: true},
	)

	assert.True(t, g.CanModerate(g.OwnerID))
	assert.True(t, g.CanModerate(moderator))
	assert.False(t, g.CanModerate(member))
	assert.False(t, g.CanModerate(primitive.NewObjectID()))

	// Deactivated moderators lose the ability.
	require.NoError(t, g.Leave(moderator))
	assert.False(t, g.CanModerate(moderator))
}

func TestChallengeApplyProgress(t *testing.T) {
	now := time.Now()
	userID := primitive.NewObjectID()

	newChallenge := func() *Challenge {
		c := &Challenge{
			ID:       primitive.NewObjectID(),
			Title:    "30 activities in March",
			Goal:     ChallengeGoal{Target: 30, Unit: "activities"},
			IsActive: true,
		}
		_ = c.AddParticipant(userID, now)
		return c
	}

	t.Run("unknown participant", func(t *testing.T) {
		c := newChallenge()
		_, err := c.ApplyProgress(primitive.NewObjectID(), 5, now)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("progress never regresses", func(t *testing.T) {
		c := newChallenge()
		p, err := c.ApplyProgress(userID, 10, now)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Progress)

		p, err = c.ApplyProgress(userID, 4, now)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Progress)
	})

	t.Run("progress caps at target and completes", func(t *testing.T) {
		c := newChallenge()
		p, err := c.ApplyProgress(userID, 45, now)
		require.NoError(t, err)
		assert.Equal(t, 30, p.Progress)
		assert.True(t, p.IsCompleted)
		assert.Equal(t, now, p.CompletedAt)
	})

	t.Run("completion is sticky", func(t *testing.T) {
		c := newChallenge()
		first := now
		_, err := c.ApplyProgress(userID, 30, first)
		require.NoError(t, err)

		p, err := c.ApplyProgress(userID, 30, first.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, p.IsCompleted)
		assert.Equal(t, first, p.CompletedAt) // original completion time kept
	})
}

func TestChallengeAddParticipant(t *testing.T) {
	c := &Challenge{Goal: ChallengeGoal{Target: 5, Unit: "days"}}
	userID := primitive.NewObjectID()

	require.NoError(t, c.AddParticipant(userID, time.Now()))
	assert.ErrorIs(t, c.AddParticipant(userID, time.Now()), ErrAlreadyParticipating)

	p := c.ParticipantFor(userID)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Progress)
	assert.False(t, p.IsCompleted)
}

func TestGroupPostReact(t *testing.T) {
	post := &GroupPost{ID: primitive.NewObjectID()}
	userID := primitive.NewObjectID()

	post.React(userID, "cheer")
	require.Len(t, post.Reactions, 1)
	assert.Equal(t, "cheer", post.Reactions[0].Kind)

	// Reacting again replaces, never duplicates.
	post.React(userID, "heart")
	require.Len(t, post.Reactions, 1)
	assert.Equal(t, "heart", post.Reactions[0].Kind)

	post.React(primitive.NewObjectID(), "clap")
	assert.Len(t, post.Reactions, 2)
}
