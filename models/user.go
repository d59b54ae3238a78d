package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"` // Never include in JSON responses

	Profile     UserProfile     `json:"profile" bson:"profile"`
	CurrentMood string          `json:"currentMood" bson:"currentMood"`
	PrimaryGoal string          `json:"primaryGoal" bson:"primaryGoal"`
	Preferences UserPreferences `json:"preferences" bson:"preferences"`

	StreakData   StreakData    `json:"streakData" bson:"streakData"`
	SocialData   SocialData    `json:"socialData" bson:"socialData"`
	Achievements []Achievement `json:"achievements" bson:"achievements"`

	// Account Status
	IsActive    bool      `json:"isActive" bson:"isActive"`
	LastLoginAt time.Time `json:"lastLoginAt" bson:"lastLoginAt"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UserProfile struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Avatar    string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty" bson:"bio,omitempty"`
	Timezone  string `json:"timezone" bson:"timezone"`
}

type UserPreferences struct {
	Notifications NotificationPrefs `json:"notifications" bson:"notifications"`
	Content       ContentPrefs      `json:"content" bson:"content"`
	Theme         string            `json:"theme" bson:"theme"` // light, dark, auto
}

type NotificationPrefs struct {
	DailyAffirmation bool       `json:"dailyAffirmation" bson:"dailyAffirmation"`
	FriendActivity   bool       `json:"friendActivity" bson:"friendActivity"`
	ChallengeUpdates bool       `json:"challengeUpdates" bson:"challengeUpdates"`
	QuietHours       QuietHours `json:"quietHours" bson:"quietHours"`
}

type QuietHours struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Start   string `json:"start" bson:"start"` // HH:MM
	End     string `json:"end" bson:"end"`     // HH:MM
}

type ContentPrefs struct {
	PreferredKinds []string `json:"preferredKinds" bson:"preferredKinds"`
	Tone           string   `json:"tone" bson:"tone"` // gentle, energetic, direct
}

type StreakData struct {
	CurrentStreak            int       `json:"currentStreak" bson:"currentStreak"`
	LongestStreak            int       `json:"longestStreak" bson:"longestStreak"`
	LastActivityDate         time.Time `json:"lastActivityDate,omitempty" bson:"lastActivityDate,omitempty"`
	TotalActivitiesCompleted int       `json:"totalActivitiesCompleted" bson:"totalActivitiesCompleted"`
}

type SocialData struct {
	Friends []FriendEntry     `json:"friends" bson:"friends"`
	Groups  []GroupMembership `json:"groups" bson:"groups"`
	Privacy PrivacySettings   `json:"privacy" bson:"privacy"`
}

type FriendEntry struct {
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Status      string             `json:"status" bson:"status"` // pending, accepted, blocked
	RequestedBy primitive.ObjectID `json:"requestedBy" bson:"requestedBy"`
	Since       time.Time          `json:"since" bson:"since"`
}

type GroupMembership struct {
	GroupID  primitive.ObjectID `json:"groupId" bson:"groupId"`
	Role     string             `json:"role" bson:"role"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt"`
}

type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility" bson:"profileVisibility"` // public, friends, private
	ShareStreak       bool   `json:"shareStreak" bson:"shareStreak"`
	ShareActivity     bool   `json:"shareActivity" bson:"shareActivity"`
}

type Achievement struct {
	Type       string    `json:"type" bson:"type"`
	UnlockedAt time.Time `json:"unlockedAt" bson:"unlockedAt"`
}

// Request DTOs
type UpdateUserRequest struct {
	FirstName   *string          `json:"firstName,omitempty"`
	LastName    *string          `json:"lastName,omitempty"`
	Avatar      *string          `json:"avatar,omitempty"`
	Bio         *string          `json:"bio,omitempty"`
	Timezone    *string          `json:"timezone,omitempty"`
	CurrentMood *string          `json:"currentMood,omitempty" validate:"omitempty,mood"`
	PrimaryGoal *string          `json:"primaryGoal,omitempty" validate:"omitempty,wellness_goal"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Privacy     *PrivacySettings `json:"privacy,omitempty"`
}

type SearchUsersRequest struct {
	Query string `json:"query" form:"q" validate:"required,min=2"`
	Limit int    `json:"limit" form:"limit" validate:"min=0,max=50"`
}

// PublicProfile is the shape returned for other users, trimmed per the
// owner's privacy settings.
type PublicProfile struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	FirstName    string      `json:"firstName,omitempty"`
	LastName     string      `json:"lastName,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	CurrentMood  string      `json:"currentMood,omitempty"`
	StreakData   *StreakData `json:"streakData,omitempty"`
	FriendsCount int         `json:"friendsCount"`
	MemberSince  time.Time   `json:"memberSince"`
}

// Moods
const (
	MoodHappy     = "happy"
	MoodCalm      = "calm"
	MoodEnergetic = "energetic"
	MoodFocused   = "focused"
	MoodTired     = "tired"
	MoodStressed  = "stressed"
	MoodAnxious   = "anxious"
	MoodSad       = "sad"
)

// Primary goals
const (
	GoalReduceStress     = "reduce_stress"
	GoalImproveSleep     = "improve_sleep"
	GoalBuildHabits      = "build_habits"
	GoalBoostEnergy      = "boost_energy"
	GoalEmotionalBalance = "emotional_balance"
	GoalMindfulness      = "mindfulness"
)

// Friend statuses
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusBlocked  = "blocked"
)

// Privacy visibility
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Achievement types
const (
	AchievementFirstCompletion = "first_completion"
	AchievementStreak7         = "streak_7"
	AchievementStreak30        = "streak_30"
	AchievementStreak100       = "streak_100"
	AchievementCompleted50     = "completed_50"
	AchievementCompleted500    = "completed_500"
	AchievementFirstShare      = "first_share"
)

var Moods = []string{
	MoodHappy, MoodCalm, MoodEnergetic, MoodFocused,
	MoodTired, MoodStressed, MoodAnxious, MoodSad,
}

var Goals = []string{
	GoalReduceStress, GoalImproveSleep, GoalBuildHabits,
	GoalBoostEnergy, GoalEmotionalBalance, GoalMindfulness,
}

var (
	ErrFriendRequestExists   = errors.New("friend request already exists")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrAlreadyFriends        = errors.New("users are already friends")
	ErrSelfFriendRequest     = errors.New("cannot send friend request to yourself")
)

// Location resolves the user's stored timezone, falling back to UTC when
// it is empty or unparseable. Streak day boundaries follow this location.
func (u *User) Location() *time.Location {
	if u.Profile.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Profile.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CalendarDayDiff returns the number of calendar days between from and to
// as observed in loc. Same local date yields 0 regardless of clock time.
func CalendarDayDiff(loc *time.Location, from, to time.Time) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()
	fromDay := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	toDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// Advance applies one completion event at completedAt and returns the
// updated counters:
//   - no prior activity or a gap of more than one day resets the streak to 1
//   - a gap of exactly one day extends the streak
//   - a repeat completion on the same day leaves the streak unchanged
//
// LongestStreak never decreases and TotalActivitiesCompleted always
// increments.
func (sd StreakData) Advance(loc *time.Location, completedAt time.Time) StreakData {
	next := sd

	switch {
	case sd.LastActivityDate.IsZero():
		next.CurrentStreak = 1
	default:
		switch CalendarDayDiff(loc, sd.LastActivityDate, completedAt) {
		case 0:
			// same-day repeat, streak unchanged
		case 1:
			next.CurrentStreak = sd.CurrentStreak + 1
		default:
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityDate = completedAt
	next.TotalActivitiesCompleted = sd.TotalActivitiesCompleted + 1

	return next
}

// FriendEntryFor returns the friend entry for the given user, if any.
func (u *User) FriendEntryFor(userID primitive.ObjectID) *FriendEntry {
	for i := range u.SocialData.Friends {
		if u.SocialData.Friends[i].UserID == userID {
			return &u.SocialData.Friends[i]
		}
	}
	return nil
}

// IsFriendWith reports whether the relationship with userID is accepted.
func (u *User) IsFriendWith(userID primitive.ObjectID) bool {
	entry := u.FriendEntryFor(userID)
	return entry != nil && entry.Status == FriendStatusAccepted
}

// AddFriendRequest records an outgoing or incoming pending entry.
// requestedBy identifies the side that initiated the request.
func (u *User) AddFriendRequest(friendID, requestedBy primitive.ObjectID, at time.Time) error {
	if u.ID == friendID {
		return ErrSelfFriendRequest
	}
	if entry := u.FriendEntryFor(friendID); entry != nil {
		if entry.Status == FriendStatusAccepted {
			return ErrAlreadyFriends
		}
		return ErrFriendRequestExists
	}
	u.SocialData.Friends = append(u.SocialData.Friends, FriendEntry{
		UserID:      friendID,
		Status:      FriendStatusPending,
		RequestedBy: requestedBy,
		Since:       at,
	})
	return nil
}

// AcceptFriend flips the pending entry for friendID to accepted.
func (u *User) AcceptFriend(friendID primitive.ObjectID, at time.Time) error {
	entry := u.FriendEntryFor(friendID)
	if entry == nil || entry.Status != FriendStatusPending {
		return ErrFriendRequestNotFound
	}
	entry.Status = FriendStatusAccepted
	entry.Since = at
	return nil
}

// RemoveFriend deletes the entry for friendID regardless of status.
// Returns false when no entry existed.
func (u *User) RemoveFriend(friendID primitive.ObjectID) bool {
	for i := range u.SocialData.Friends {
		if u.SocialData.Friends[i].UserID == friendID {
			u.SocialData.Friends = append(u.SocialData.Friends[:i], u.SocialData.Friends[i+1:]...)
			return true
		}
	}
	return false
}

// HasAchievement reports whether the achievement type is already unlocked.
func (u *User) HasAchievement(achievementType string) bool {
	for _, a := range u.Achievements {
		if a.Type == achievementType {
			return true
		}
	}
	return false
}

// PendingAchievements returns achievement types earned by the given streak
// counters but not yet recorded on the user.
func (u *User) PendingAchievements(sd StreakData) []string {
	thresholds := []struct {
		achievementType string
		earned          bool
	}{
		{AchievementFirstCompletion, sd.TotalActivitiesCompleted >= 1},
		{AchievementCompleted50, sd.TotalActivitiesCompleted >= 50},
		{AchievementCompleted500, sd.TotalActivitiesCompleted >= 500},
		{AchievementStreak7, sd.CurrentStreak >= 7},
		{AchievementStreak30, sd.CurrentStreak >= 30},
		{AchievementStreak100, sd.CurrentStreak >= 100},
	}

	var pending []string
	for _, t := range thresholds {
		if t.earned && !u.HasAchievement(t.achievementType) {
			pending = append(pending, t.achievementType)
		}
	}
	return pending
}

// PublicView trims the user to what the viewer is allowed to see.
func (u *User) PublicView(viewerIsFriend bool) PublicProfile {
	profile := PublicProfile{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		FriendsCount: u.acceptedFriendCount(),
		MemberSince:  u.CreatedAt,
	}

	visibility := u.SocialData.Privacy.ProfileVisibility
	if visibility == VisibilityPrivate && !viewerIsFriend {
		return profile
	}
	if visibility == VisibilityFriends && !viewerIsFriend {
		return profile
	}

	profile.FirstName = u.Profile.FirstName
	profile.LastName = u.Profile.LastName
	profile.Avatar = u.Profile.Avatar
	profile.Bio = u.Profile.Bio
	profile.CurrentMood = u.CurrentMood

	if u.SocialData.Privacy.ShareStreak {
		sd := u.StreakData
		profile.StreakData = &sd
	}

	return profile
}

func (u *User) acceptedFriendCount() int {
	count := 0
	for _, f := range u.SocialData.Friends {
		if f.Status == FriendStatusAccepted {
			count++
		}
	}
	return count
}
