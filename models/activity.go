package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Activity struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId"`

	Type     string `json:"type" bson:"type" validate:"required,activity_type"`
	Category string `json:"category" bson:"category" validate:"required,wellness_goal"`
	Title    string `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Content  string `json:"content" bson:"content" validate:"required,max=4000"`
	Source   string `json:"source" bson:"source"` // ai, user

	CompletionData CompletionData     `json:"completionData" bson:"completionData"`
	SocialData     ActivitySocialData `json:"socialData" bson:"socialData"`

	// Soft delete flag
	IsActive bool `json:"isActive" bson:"isActive"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type CompletionData struct {
	IsCompleted bool      `json:"isCompleted" bson:"isCompleted"`
	CompletedAt time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Rating      int       `json:"rating,omitempty" bson:"rating,omitempty"` // 1-5
	MoodBefore  string    `json:"moodBefore,omitempty" bson:"moodBefore,omitempty"`
	MoodAfter   string    `json:"moodAfter,omitempty" bson:"moodAfter,omitempty"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

type ActivitySocialData struct {
	IsShared   bool                 `json:"isShared" bson:"isShared"`
	SharedWith []primitive.ObjectID `json:"sharedWith" bson:"sharedWith"`
	Likes      []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments   []ActivityComment    `json:"comments" bson:"comments"`
}

type ActivityComment struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Request DTOs
type CreateActivityRequest struct {
	Type     string `json:"type" validate:"required,activity_type"`
	Category string `json:"category" validate:"required,wellness_goal"`
	Title    string `json:"title" validate:"required,min=2,max=120"`
	Content  string `json:"content" validate:"required,max=4000"`
}

type UpdateActivityRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Content  *string `json:"content,omitempty" validate:"omitempty,max=4000"`
	Category *string `json:"category,omitempty" validate:"omitempty,wellness_goal"`
}

type CompleteActivityRequest struct {
	Rating     int    `json:"rating" validate:"omitempty,min=1,max=5"`
	MoodBefore string `json:"moodBefore" validate:"omitempty,mood"`
	MoodAfter  string `json:"moodAfter" validate:"omitempty,mood"`
	Notes      string `json:"notes" validate:"max=2000"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

type ShareActivityRequest struct {
	UserIDs  []string `json:"userIds,omitempty"`
	Everyone bool     `json:"everyone,omitempty"`
}

type ListActivitiesRequest struct {
	Type      string `form:"type" validate:"omitempty,activity_type"`
	Category  string `form:"category" validate:"omitempty,wellness_goal"`
	Completed *bool  `form:"completed"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// Activity types
const (
	ActivityTypeAffirmation = "affirmation"
	ActivityTypeExercise    = "exercise"
	ActivityTypeMeditation  = "meditation"
	ActivityTypeJournaling  = "journaling"
	ActivityTypeBreathing   = "breathing"
	ActivityTypeGratitude   = "gratitude"
	ActivityTypeCustom      = "custom"
)

// Activity sources
const (
	ActivitySourceAI   = "ai"
	ActivitySourceUser = "user"
)

var ActivityTypes = []string{
	ActivityTypeAffirmation, ActivityTypeExercise, ActivityTypeMeditation,
	ActivityTypeJournaling, ActivityTypeBreathing, ActivityTypeGratitude,
	ActivityTypeCustom,
}

// LikedBy reports whether userID already appears in the likes list.
func (a *Activity) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range a.SocialData.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// SharedWithUser reports whether the activity is visible to userID:
// shared with everyone (empty sharedWith while isShared) or shared with
// the user explicitly. The owner always sees their own activity.
func (a *Activity) SharedWithUser(userID primitive.ObjectID) bool {
	if a.OwnerID == userID {
		return true
	}
	if !a.SocialData.IsShared {
		return false
	}
	if len(a.SocialData.SharedWith) == 0 {
		return true
	}
	for _, id := range a.SocialData.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// EngagementScore ranks shared activities: likes + 2x comments.
func (a *Activity) EngagementScore() int {
	return len(a.SocialData.Likes) + 2*len(a.SocialData.Comments)
}
