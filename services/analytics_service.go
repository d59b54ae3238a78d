package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	trendingCacheTTL    = 5 * time.Minute
	leaderboardCacheTTL = 5 * time.Minute
)

// moodScore orders moods from lowest to highest valence for the
// mood-improvement insight.
var moodScore = map[string]int{
	models.MoodSad:       1,
	models.MoodAnxious:   2,
	models.MoodStressed:  3,
	models.MoodTired:     4,
	models.MoodCalm:      5,
	models.MoodFocused:   6,
	models.MoodEnergetic: 7,
	models.MoodHappy:     8,
}

type AnalyticsService struct {
	activityRepo *repositories.ActivityRepository
	userRepo     *repositories.UserRepository
	redisClient  *redis.Client
	validator    *utils.ValidationService
}

func NewAnalyticsService(
	activityRepo *repositories.ActivityRepository,
	userRepo *repositories.UserRepository,
	redisClient *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		redisClient:  redisClient,
		validator:    utils.NewValidationService(),
	}
}

// GetTrending returns shared activities ranked by engagement score
// within the window. Results are cached briefly per window+limit.
func (s *AnalyticsService) GetTrending(ctx context.Context, req models.TrendingRequest) ([]models.TrendingActivity, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	window := req.Window
	if window == "" {
		window = "week"
	}

	cacheKey := fmt.Sprintf("trending:%s:%d", window, limit)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var results []models.TrendingActivity
			if json.Unmarshal([]byte(cached), &results) == nil {
				return results, nil
			}
		}
	}

	since := models.WindowStart(window, time.Now())
	results, err := s.activityRepo.GetTrending(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.TrendingActivity{}
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, data, trendingCacheTTL).Err(); err != nil {
				logrus.Warnf("trending cache write failed: %v", err)
			}
		}
	}

	return results, nil
}

// GetLeaderboard ranks users by streak, total completions, or likes
// received in the window. Streak and completion boards ignore the
// window: those counters are lifetime values on the user document.
func (s *AnalyticsService) GetLeaderboard(ctx context.Context, req models.LeaderboardRequest) ([]models.LeaderboardEntry, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	by := req.By
	if by == "" {
		by = models.LeaderboardByStreak
	}
	window := req.Window
	if window == "" {
		window = "all"
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%s:%d", by, window, limit)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var entries []models.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	var entries []models.LeaderboardEntry
	var err error
	switch by {
	case models.LeaderboardByStreak:
		entries, err = s.userRepo.GetStreakLeaderboard(ctx, limit)
	case models.LeaderboardByCompleted:
		entries, err = s.userRepo.GetCompletedLeaderboard(ctx, limit)
	case models.LeaderboardByLikes:
		since := models.WindowStart(window, time.Now())
		entries, err = s.activityRepo.GetLikesLeaderboard(ctx, since, limit)
	default:
		return nil, errors.New("unknown leaderboard dimension")
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logrus.Warnf("leaderboard cache write failed: %v", err)
			}
		}
	}

	return entries, nil
}

// GetInsights evaluates a fixed rule table over the user's last 30 days
// of completions. The output is deterministic for a given history and
// sorted by priority.
func (s *AnalyticsService) GetInsights(ctx context.Context, userID string) ([]models.Insight, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	since := time.Now().AddDate(0, -1, 0)
	completed, err := s.activityRepo.GetCompletedSince(ctx, ownerID, since, 500)
	if err != nil {
		return nil, err
	}

	insights := BuildInsights(user, completed)
	return insights, nil
}

// BuildInsights is the pure rule table behind GetInsights.
func BuildInsights(user *models.User, completed []models.Activity) []models.Insight {
	var insights []models.Insight

	switch {
	case user.StreakData.CurrentStreak >= 30:
		insights = append(insights, models.Insight{
			Type:     models.InsightStreak,
			Title:    "Unstoppable",
			Message:  fmt.Sprintf("You've kept your streak alive for %d days. Remarkable consistency.", user.StreakData.CurrentStreak),
			Priority: 1,
		})
	case user.StreakData.CurrentStreak >= 7:
		insights = append(insights, models.Insight{
			Type:     models.InsightStreak,
			Title:    "On a roll",
			Message:  fmt.Sprintf("A %d-day streak! Keep showing up and it becomes a habit.", user.StreakData.CurrentStreak),
			Priority: 1,
		})
	case user.StreakData.CurrentStreak >= 3:
		insights = append(insights, models.Insight{
			Type:     models.InsightStreak,
			Title:    "Building momentum",
			Message:  fmt.Sprintf("%d days in a row. Three more and you'll hit a full week.", user.StreakData.CurrentStreak),
			Priority: 2,
		})
	}

	if len(completed) == 0 {
		insights = append(insights, models.Insight{
			Type:     models.InsightGettingStarted,
			Title:    "Ready when you are",
			Message:  "Complete your first activity this month to start seeing patterns here.",
			Priority: 1,
		})
		sortInsights(insights)
		return insights
	}

	// Mood improvement ratio over completions that recorded both moods
	improved, rated := 0, 0
	for _, a := range completed {
		before, okBefore := moodScore[a.CompletionData.MoodBefore]
		after, okAfter := moodScore[a.CompletionData.MoodAfter]
		if !okBefore || !okAfter {
			continue
		}
		rated++
		if after > before {
			improved++
		}
	}
	if rated >= 3 && improved*2 > rated {
		insights = append(insights, models.Insight{
			Type:     models.InsightMoodTrend,
			Title:    "Activities lift your mood",
			Message:  fmt.Sprintf("Your mood improved after %d of your last %d rated activities.", improved, rated),
			Priority: 2,
		})
	}

	// Most frequent activity type, first-seen wins ties
	typeCounts := map[string]int{}
	typeOrder := []string{}
	for _, a := range completed {
		if _, seen := typeCounts[a.Type]; !seen {
			typeOrder = append(typeOrder, a.Type)
		}
		typeCounts[a.Type]++
	}
	favorite, favoriteCount := "", 0
	for _, t := range typeOrder {
		if typeCounts[t] > favoriteCount {
			favorite, favoriteCount = t, typeCounts[t]
		}
	}
	if favoriteCount >= 3 {
		insights = append(insights, models.Insight{
			Type:     models.InsightFavoriteType,
			Title:    "You have a favorite",
			Message:  fmt.Sprintf("You've completed %d %s activities this month, more than any other type.", favoriteCount, favorite),
			Priority: 3,
		})
	}

	// Preferred time-of-day bucket in the user's timezone
	loc := user.Location()
	buckets := map[string]int{}
	for _, a := range completed {
		buckets[timeOfDayBucket(a.CompletionData.CompletedAt.In(loc))]++
	}
	bucket, bucketCount := "", 0
	for _, name := range []string{"morning", "afternoon", "evening", "night"} {
		if buckets[name] > bucketCount {
			bucket, bucketCount = name, buckets[name]
		}
	}
	if bucketCount >= 3 && bucketCount*2 > len(completed) {
		insights = append(insights, models.Insight{
			Type:     models.InsightPreferredTime,
			Title:    "Your wellness hour",
			Message:  fmt.Sprintf("Most of your activities happen in the %s. That's your rhythm.", bucket),
			Priority: 4,
		})
	}

	sortInsights(insights)
	return insights
}

func timeOfDayBucket(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

func sortInsights(insights []models.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority < insights[j].Priority
	})
}
