package models

import "time"

// TrendingActivity is one ranked entry in the trending feed. Score is
// likes + 2x comments; ties are broken by recency.
type TrendingActivity struct {
	Activity Activity `json:"activity" bson:",inline"`
	Score    int      `json:"score" bson:"score"`
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank" bson:"rank,omitempty"`
	UserID    string `json:"userId" bson:"userId"`
	Username  string `json:"username" bson:"username"`
	Avatar    string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Value     int    `json:"value" bson:"value"`
	Dimension string `json:"dimension" bson:"dimension"` // streak, completed, likes
}

// Leaderboard dimensions
const (
	LeaderboardByStreak    = "streak"
	LeaderboardByCompleted = "completed"
	LeaderboardByLikes     = "likes"
)

// Insight is one rule-table finding over a user's recent history.
// Priority sorts the list: lower value surfaces first.
type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// Insight types
const (
	InsightStreak         = "streak"
	InsightMoodTrend      = "mood_trend"
	InsightFavoriteType   = "favorite_type"
	InsightPreferredTime  = "preferred_time"
	InsightGettingStarted = "getting_started"
)

type TrendingRequest struct {
	Window string `form:"window" validate:"omitempty,oneof=day week month all"`
	Limit  int    `form:"limit" validate:"min=0,max=100"`
}

type LeaderboardRequest struct {
	By     string `form:"by" validate:"omitempty,oneof=streak completed likes"`
	Window string `form:"window" validate:"omitempty,oneof=day week month all"`
	Limit  int    `form:"limit" validate:"min=0,max=100"`
}

// WindowStart maps a window name to its inclusive lower time bound.
// The zero time means no bound.
func WindowStart(window string, now time.Time) time.Time {
	switch window {
	case "day":
		return now.AddDate(0, 0, -1)
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}
