package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"
	"wellnest/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type ContentService struct {
	generator   Generator
	userRepo    *repositories.UserRepository
	redisClient *redis.Client
	hub         *websocket.Hub
	validator   *utils.ValidationService
}

func NewContentService(
	generator Generator,
	userRepo *repositories.UserRepository,
	redisClient *redis.Client,
	hub *websocket.Hub,
) *ContentService {
	return &ContentService{
		generator:   generator,
		userRepo:    userRepo,
		redisClient: redisClient,
		hub:         hub,
		validator:   utils.NewValidationService(),
	}
}

// Generate produces fresh content of the requested kind, personalized
// to the user's current mood, goal and tone preference.
func (s *ContentService) Generate(ctx context.Context, userID string, req models.GenerateContentRequest) (*models.GeneratedContent, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.generator.Generate(ctx, req.Kind, profileFor(user))
}

// GetDailyAffirmation returns the user's affirmation for today in their
// timezone, generating it on first request and caching it until the
// calendar day rolls over.
func (s *ContentService) GetDailyAffirmation(ctx context.Context, userID string) (*models.GeneratedContent, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc := user.Location()
	now := time.Now().In(loc)
	cacheKey := "daily_affirmation:" + userID + ":" + now.Format("2006-01-02")

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var content models.GeneratedContent
			if json.Unmarshal([]byte(cached), &content) == nil {
				return &content, nil
			}
		}
	}

	content, err := s.generator.Generate(ctx, models.ContentKindAffirmation, profileFor(user))
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(content); err == nil {
			ttl := time.Until(endOfDay(now))
			if ttl <= 0 {
				ttl = time.Minute
			}
			if err := s.redisClient.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				logrus.Warnf("daily affirmation cache write failed for %s: %v", userID, err)
			}
		}
	}

	return content, nil
}

// DeliverDailyAffirmation generates and pushes today's affirmation to a
// connected user. Used by the affirmation worker.
func (s *ContentService) DeliverDailyAffirmation(ctx context.Context, user *models.User) error {
	if !user.Preferences.Notifications.DailyAffirmation {
		return nil
	}

	userID := user.ID.Hex()
	content, err := s.GetDailyAffirmation(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	s.hub.SendToUser(userID, models.WSMessage{
		Type: models.WSEventNewAffirmation,
		Data: models.WSAffirmation{
			UserID:    userID,
			Text:      content.Text,
			Mood:      user.CurrentMood,
			Timestamp: now,
		},
		UserID:    userID,
		Timestamp: now,
	})

	return nil
}

func profileFor(user *models.User) models.ContentProfile {
	return models.ContentProfile{
		Mood:           user.CurrentMood,
		Goal:           user.PrimaryGoal,
		Tone:           user.Preferences.Content.Tone,
		PreferredKinds: user.Preferences.Content.PreferredKinds,
		FirstName:      user.Profile.FirstName,
	}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
