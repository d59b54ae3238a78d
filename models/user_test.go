package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCalendarDayDiff(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		loc  *time.Location
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day different times",
			loc:  time.UTC,
			from: time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "consecutive days across midnight",
			loc:  time.UTC,
			from: time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "multi day gap",
			loc:  time.UTC,
			from: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
			want: 4,
		},
		{
			name: "same UTC instant falls on different local days",
			loc:  ny,
			// 03:00 UTC is 22:00/23:00 the previous day in New York.
			from: time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "backwards in time",
			loc:  time.UTC,
			from: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalendarDayDiff(tt.loc, tt.from, tt.to))
		})
	}
}

func TestStreakDataAdvance(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name        string
		start       StreakData
		completedAt time.Time
		wantCurrent int
		wantLongest int
		wantTotal   int
	}{
		{
			name:        "first ever completion starts streak at 1",
			start:       StreakData{},
			completedAt: day(10, 9),
			wantCurrent: 1,
			wantLongest: 1,
			wantTotal:   1,
		},
		{
			name: "next day extends streak",
			start: StreakData{
				CurrentStreak:            3,
				LongestStreak:            5,
				LastActivityDate:         day(9, 22),
				TotalActivitiesCompleted: 12,
			},
			completedAt: day(10, 7),
			wantCurrent: 4,
			wantLongest: 5,
			wantTotal:   13,
		},
		{
			name: "same day repeat leaves streak unchanged",
			start: StreakData{
				CurrentStreak:            4,
				LongestStreak:            4,
				LastActivityDate:         day(10, 8),
				TotalActivitiesCompleted: 13,
			},
			completedAt: day(10, 20),
			wantCurrent: 4,
			wantLongest: 4,
			wantTotal:   14,
		},
		{
			name: "gap of two days resets to 1",
			start: StreakData{
				CurrentStreak:            7,
				LongestStreak:            7,
				LastActivityDate:         day(10, 12),
				TotalActivitiesCompleted: 20,
			},
			completedAt: day(13, 12),
			wantCurrent: 1,
			wantLongest: 7,
			wantTotal:   21,
		},
		{
			name: "extension past longest raises longest",
			start: StreakData{
				CurrentStreak:            5,
				LongestStreak:            5,
				LastActivityDate:         day(9, 12),
				TotalActivitiesCompleted: 30,
			},
			completedAt: day(10, 12),
			wantCurrent: 6,
			wantLongest: 6,
			wantTotal:   31,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Advance(time.UTC, tt.completedAt)
			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
			assert.Equal(t, tt.wantTotal, got.TotalActivitiesCompleted)
			assert.Equal(t, tt.completedAt, got.LastActivityDate)
		})
	}
}

func TestStreakDataAdvanceTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:00 and next-day 01:00 Tokyo time are consecutive local days even
	// though only two hours apart.
	first := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)  // 23:00 JST Mar 10
	second := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC) // 01:00 JST Mar 11

	sd := StreakData{}.Advance(tokyo, first)
	assert.Equal(t, 1, sd.CurrentStreak)

	sd = sd.Advance(tokyo, second)
	assert.Equal(t, 2, sd.CurrentStreak)

	// In UTC the same two instants are the same calendar day.
	sd = StreakData{}.Advance(time.UTC, first)
	sd = sd.Advance(time.UTC, second)
	assert.Equal(t, 1, sd.CurrentStreak)
}

func TestUserLocation(t *testing.T) {
	user := &User{}
	assert.Equal(t, time.UTC, user.Location())

	user.Profile.Timezone = "not/a-zone"
	assert.Equal(t, time.UTC, user.Location())

	user.Profile.Timezone = "Europe/Berlin"
	assert.Equal(t, "Europe/Berlin", user.Location().String())
}

func TestFriendLifecycle(t *testing.T) {
	now := time.Now()
	me := primitive.NewObjectID()
	them := primitive.NewObjectID()

	user := &User{ID: me}

	require.NoError(t, user.AddFriendRequest(them, them, now))
	entry := user.FriendEntryFor(them)
	require.NotNil(t, entry)
	assert.Equal(t, FriendStatusPending, entry.Status)
	assert.Equal(t, them, entry.RequestedBy)
	assert.False(t, user.IsFriendWith(them))

	// Duplicate request is rejected.
	assert.ErrorIs(t, user.AddFriendRequest(them, me, now), ErrFriendRequestExists)

	require.NoError(t, user.AcceptFriend(them, now.Add(time.Hour)))
	assert.True(t, user.IsFriendWith(them))

	// Accepting twice or requesting an existing friend fails.
	assert.ErrorIs(t, user.AcceptFriend(them, now), ErrFriendRequestNotFound)
	assert.ErrorIs(t, user.AddFriendRequest(them, me, now), ErrAlreadyFriends)

	assert.True(t, user.RemoveFriend(them))
	assert.False(t, user.RemoveFriend(them))
	assert.Nil(t, user.FriendEntryFor(them))
}

func TestAddFriendRequestSelf(t *testing.T) {
	me := primitive.NewObjectID()
	user := &User{ID: me}
	assert.ErrorIs(t, user.AddFriendRequest(me, me, time.Now()), ErrSelfFriendRequest)
}

func TestPendingAchievements(t *testing.T) {
	user := &User{
		Achievements: []Achievement{
			{Type: AchievementFirstCompletion, UnlockedAt: time.Now()},
		},
	}

	pending := user.PendingAchievements(StreakData{
		CurrentStreak:            7,
		TotalActivitiesCompleted: 50,
	})

	assert.ElementsMatch(t, []string{AchievementCompleted50, AchievementStreak7}, pending)

	// Nothing earned, nothing pending.
	assert.Empty(t, user.PendingAchievements(StreakData{}))
}

func TestPublicViewPrivacy(t *testing.T) {
	friend := primitive.NewObjectID()
	user := &User{
		ID:       primitive.NewObjectID(),
		Username: "riverwalker",
		Profile: UserProfile{
			FirstName: "River",
			Bio:       "one day at a time",
		},
		CurrentMood: MoodCalm,
		StreakData:  StreakData{CurrentStreak: 12, LongestStreak: 20},
		SocialData: SocialData{
			Friends: []FriendEntry{
				{UserID: friend, Status: FriendStatusAccepted},
				{UserID: primitive.NewObjectID(), Status: FriendStatusPending},
			},
			Privacy: PrivacySettings{
				ProfileVisibility: VisibilityFriends,
				ShareStreak:       true,
			},
		},
	}

	stranger := user.PublicView(false)
	assert.Equal(t, "riverwalker", stranger.Username)
	assert.Equal(t, 1, stranger.FriendsCount)
	assert.Empty(t, stranger.FirstName)
	assert.Empty(t, stranger.Bio)
	assert.Nil(t, stranger.StreakData)

	asFriend := user.PublicView(true)
	assert.Equal(t, "River", asFriend.FirstName)
	assert.Equal(t, MoodCalm, asFriend.CurrentMood)
	require.NotNil(t, asFriend.StreakData)
	assert.Equal(t, 12, asFriend.StreakData.CurrentStreak)

	// Streak sharing off hides streak even from friends.
	user.SocialData.Privacy.ShareStreak = false
	assert.Nil(t, user.PublicView(true).StreakData)

	// Private profiles stay trimmed for everyone but friends.
	user.SocialData.Privacy.ProfileVisibility = VisibilityPrivate
	assert.Empty(t, user.PublicView(false).FirstName)
}
