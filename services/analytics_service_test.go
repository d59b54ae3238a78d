package services

import (
	"testing"
	"time"

	"wellnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedActivity(activityType string, completedAt time.Time, moodBefore, moodAfter string) models.Activity {
	return models.Activity{
		Type: activityType,
		CompletionData: models.CompletionData{
			IsCompleted: true,
			CompletedAt: completedAt,
			MoodBefore:  moodBefore,
			MoodAfter:   moodAfter,
		},
	}
}

func insightTypes(insights []models.Insight) []string {
	types := make([]string, 0, len(insights))
	for _, in := range insights {
		types = append(types, in.Type)
	}
	return types
}

func TestBuildInsightsGettingStarted(t *testing.T) {
	user := &models.User{}

	insights := BuildInsights(user, nil)
	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightGettingStarted, insights[0].Type)
}

func TestBuildInsightsStreakTiers(t *testing.T) {
	tests := []struct {
		name      string
		streak    int
		wantTitle string
		wantNone  bool
	}{
		{name: "below threshold", streak: 2, wantNone: true},
		{name: "three days", streak: 3, wantTitle: "Building momentum"},
		{name: "one week", streak: 7, wantTitle: "On a roll"},
		{name: "thirty days", streak: 30, wantTitle: "Unstoppable"},
		{name: "long streak stays in top tier", streak: 120, wantTitle: "Unstoppable"},
	}

	morning := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	// One completion so the getting-started insight does not fire.
	history := []models.Activity{completedActivity(models.ActivityTypeMeditation, morning, "", "")}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{StreakData: models.StreakData{CurrentStreak: tt.streak}}
			insights := BuildInsights(user, history)

			var streakInsight *models.Insight
			for i := range insights {
				if insights[i].Type == models.InsightStreak {
					streakInsight = &insights[i]
				}
			}

			if tt.wantNone {
				assert.Nil(t, streakInsight)
				return
			}
			require.NotNil(t, streakInsight)
			assert.Equal(t, tt.wantTitle, streakInsight.Title)
		})
	}
}

func TestBuildInsightsMoodTrend(t *testing.T) {
	at := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)

	t.Run("majority improvement fires", func(t *testing.T) {
		history := []models.Activity{
			completedActivity(models.ActivityTypeBreathing, at, models.MoodStressed, models.MoodCalm),
			completedActivity(models.ActivityTypeBreathing, at, models.MoodSad, models.MoodHappy),
			completedActivity(models.ActivityTypeJournaling, at, models.MoodAnxious, models.MoodFocused),
			completedActivity(models.ActivityTypeJournaling, at, models.MoodHappy, models.MoodTired),
		}
		assert.Contains(t, insightTypes(BuildInsights(&models.User{}, history)), models.InsightMoodTrend)
	})

	t.Run("too few rated completions", func(t *testing.T) {
		history := []models.Activity{
			completedActivity(models.ActivityTypeBreathing, at, models.MoodStressed, models.MoodCalm),
			completedActivity(models.ActivityTypeBreathing, at, models.MoodSad, models.MoodHappy),
			completedActivity(models.ActivityTypeJournaling, at, "", ""),
		}
		assert.NotContains(t, insightTypes(BuildInsights(&models.User{}, history)), models.InsightMoodTrend)
	})

	t.Run("exactly half improved does not fire", func(t *testing.T) {
		history := []models.Activity{
			completedActivity(models.ActivityTypeBreathing, at, models.MoodStressed, models.MoodCalm),
			completedActivity(models.ActivityTypeBreathing, at, models.MoodHappy, models.MoodSad),
			completedActivity(models.ActivityTypeJournaling, at, models.MoodSad, models.MoodHappy),
			completedActivity(models.ActivityTypeJournaling, at, models.MoodCalm, models.MoodTired),
		}
		assert.NotContains(t, insightTypes(BuildInsights(&models.User{}, history)), models.InsightMoodTrend)
	})
}

func TestBuildInsightsFavoriteType(t *testing.T) {
	// Spread across buckets so the preferred-time insight stays quiet.
	times := []time.Time{
		time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 2, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 3, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 4, 2, 0, 0, 0, time.UTC),
	}

	history := []models.Activity{
		completedActivity(models.ActivityTypeGratitude, times[0], "", ""),
		completedActivity(models.ActivityTypeGratitude, times[1], "", ""),
		completedActivity(models.ActivityTypeGratitude, times[2], "", ""),
		completedActivity(models.ActivityTypeExercise, times[3], "", ""),
	}

	insights := BuildInsights(&models.User{}, history)
	require.Contains(t, insightTypes(insights), models.InsightFavoriteType)

	for _, in := range insights {
		if in.Type == models.InsightFavoriteType {
			assert.Contains(t, in.Message, "gratitude")
		}
	}

	// Two completions of the top type is not enough.
	short := history[:2]
	assert.NotContains(t, insightTypes(BuildInsights(&models.User{}, short)), models.InsightFavoriteType)
}

func TestBuildInsightsPreferredTime(t *testing.T) {
	morning := func(d int) time.Time { return time.Date(2026, 6, d, 7, 30, 0, 0, time.UTC) }

	history := []models.Activity{
		completedActivity(models.ActivityTypeMeditation, morning(1), "", ""),
		completedActivity(models.ActivityTypeJournaling, morning(2), "", ""),
		completedActivity(models.ActivityTypeBreathing, morning(3), "", ""),
		completedActivity(models.ActivityTypeExercise, time.Date(2026, 6, 4, 20, 0, 0, 0, time.UTC), "", ""),
	}

	insights := BuildInsights(&models.User{}, history)
	require.Contains(t, insightTypes(insights), models.InsightPreferredTime)
	for _, in := range insights {
		if in.Type == models.InsightPreferredTime {
			assert.Contains(t, in.Message, "morning")
		}
	}
}

func TestBuildInsightsSortedByPriority(t *testing.T) {
	morning := func(d int) time.Time { return time.Date(2026, 6, d, 8, 0, 0, 0, time.UTC) }

	user := &models.User{StreakData: models.StreakData{CurrentStreak: 10}}
	history := []models.Activity{
		completedActivity(models.ActivityTypeMeditation, morning(1), "", ""),
		completedActivity(models.ActivityTypeMeditation, morning(2), "", ""),
		completedActivity(models.ActivityTypeMeditation, morning(3), "", ""),
		completedActivity(models.ActivityTypeMeditation, morning(4), "", ""),
	}

	insights := BuildInsights(user, history)
	require.GreaterOrEqual(t, len(insights), 3)
	for i := 1; i < len(insights); i++ {
		assert.LessOrEqual(t, insights[i-1].Priority, insights[i].Priority)
	}
	assert.Equal(t, models.InsightStreak, insights[0].Type)
}

func TestTimeOfDayBucket(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 6, 1, h, 0, 0, 0, time.UTC) }

	assert.Equal(t, "night", timeOfDayBucket(at(0)))
	assert.Equal(t, "night", timeOfDayBucket(at(4)))
	assert.Equal(t, "morning", timeOfDayBucket(at(5)))
	assert.Equal(t, "morning", timeOfDayBucket(at(11)))
	assert.Equal(t, "afternoon", timeOfDayBucket(at(12)))
	assert.Equal(t, "afternoon", timeOfDayBucket(at(16)))
	assert.Equal(t, "evening", timeOfDayBucket(at(17)))
	assert.Equal(t, "evening", timeOfDayBucket(at(21)))
	assert.Equal(t, "night", timeOfDayBucket(at(22)))
}
