package models

import "time"

// WebSocket Message Types
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	UserID    string      `json:"userId,omitempty"`
	GroupID   string      `json:"groupId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"requestId,omitempty"`
}

type WSResponse struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Server event names pushed over the realtime channel.
const (
	WSEventNewAffirmation    = "new-affirmation"
	WSEventChallengeProgress = "challenge-progress"
	WSEventFriendRequest     = "friend-request"
	WSEventActivityLike      = "activity-like"
	WSEventGroupInvitation   = "group-invitation"
)

type WSAffirmation struct {
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type WSChallengeProgress struct {
	GroupID     string    `json:"groupId"`
	ChallengeID string    `json:"challengeId"`
	UserID      string    `json:"userId"`
	Progress    int       `json:"progress"`
	Target      int       `json:"target"`
	IsCompleted bool      `json:"isCompleted"`
	Timestamp   time.Time `json:"timestamp"`
}

type WSFriendRequest struct {
	FromUserID   string    `json:"fromUserId"`
	FromUsername string    `json:"fromUsername"`
	Status       string    `json:"status"` // pending, accepted
	Timestamp    time.Time `json:"timestamp"`
}

type WSActivityLike struct {
	ActivityID string    `json:"activityId"`
	OwnerID    string    `json:"ownerId"`
	LikedBy    string    `json:"likedBy"`
	LikeCount  int       `json:"likeCount"`
	Timestamp  time.Time `json:"timestamp"`
}

type WSGroupInvitation struct {
	GroupID   string    `json:"groupId"`
	GroupName string    `json:"groupName"`
	InvitedBy string    `json:"invitedBy"`
	Timestamp time.Time `json:"timestamp"`
}
