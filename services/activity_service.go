package services

import (
	"context"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"
	"wellnest/websocket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityService struct {
	activityRepo *repositories.ActivityRepository
	userRepo     *repositories.UserRepository
	userService  *UserService
	hub          *websocket.Hub
	validator    *utils.ValidationService
}

func NewActivityService(
	activityRepo *repositories.ActivityRepository,
	userRepo *repositories.UserRepository,
	userService *UserService,
	hub *websocket.Hub,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		userService:  userService,
		hub:          hub,
		validator:    utils.NewValidationService(),
	}
}

func (s *ActivityService) Create(ctx context.Context, userID string, req models.CreateActivityRequest) (*models.Activity, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	activity := models.Activity{
		OwnerID:  ownerID,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Source:   models.ActivitySourceUser,
	}

	if err := s.activityRepo.Create(ctx, &activity); err != nil {
		return nil, err
	}

	return &activity, nil
}

// CreateGenerated stores an AI-generated activity for the user.
func (s *ActivityService) CreateGenerated(ctx context.Context, userID string, generated models.GeneratedActivity, category string) (*models.Activity, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	activityType := generated.Type
	if !utils.StringSliceContains(models.ActivityTypes, activityType) {
		activityType = models.ActivityTypeCustom
	}

	activity := models.Activity{
		OwnerID:  ownerID,
		Type:     activityType,
		Category: category,
		Title:    generated.Title,
		Content:  generated.Description,
		Source:   models.ActivitySourceAI,
	}

	if err := s.activityRepo.Create(ctx, &activity); err != nil {
		return nil, err
	}

	return &activity, nil
}

func (s *ActivityService) Get(ctx context.Context, userID, activityID string) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	if !activity.SharedWithUser(viewerID) {
		return nil, errors.New("access denied")
	}

	return activity, nil
}

func (s *ActivityService) List(ctx context.Context, userID string, req models.ListActivitiesRequest) ([]models.Activity, int64, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, 0, errors.New("validation failed")
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, errors.New("invalid user ID")
	}

	return s.activityRepo.ListByOwner(ctx, ownerID, req)
}

func (s *ActivityService) Update(ctx context.Context, userID, activityID string, req models.UpdateActivityRequest) (*models.Activity, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	if err := s.requireOwnership(ctx, userID, activityID); err != nil {
		return nil, err
	}

	update := bson.M{}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Content != nil {
		update["content"] = *req.Content
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if len(update) == 0 {
		return nil, errors.New("no fields to update")
	}

	if err := s.activityRepo.Update(ctx, activityID, update); err != nil {
		return nil, err
	}

	return s.activityRepo.GetByID(ctx, activityID)
}

func (s *ActivityService) Delete(ctx context.Context, userID, activityID string) error {
	if err := s.requireOwnership(ctx, userID, activityID); err != nil {
		return err
	}
	return s.activityRepo.SoftDelete(ctx, activityID)
}

// Complete records completion data once and advances the owner's streak.
// A second completion attempt is rejected with a conflict and leaves the
// stored completion data unchanged. The completion write and the streak
// write are two independent writes, in that order.
func (s *ActivityService) Complete(ctx context.Context, userID, activityID string, req models.CompleteActivityRequest) (*models.StreakData, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	if err := s.requireOwnership(ctx, userID, activityID); err != nil {
		return nil, err
	}

	now := time.Now()
	completion := models.CompletionData{
		IsCompleted: true,
		CompletedAt: now,
		Rating:      req.Rating,
		MoodBefore:  req.MoodBefore,
		MoodAfter:   req.MoodAfter,
		Notes:       req.Notes,
	}

	if err := s.activityRepo.MarkCompleted(ctx, activityID, completion); err != nil {
		return nil, err
	}

	return s.userService.ApplyCompletion(ctx, userID, now)
}

// Like adds the caller to the likes set; liking twice is a no-op.
func (s *ActivityService) Like(ctx context.Context, userID, activityID string) (*models.Activity, error) {
	likerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !activity.SharedWithUser(likerID) {
		return nil, errors.New("access denied")
	}

	// Repeat likes are a no-op: no write, no owner notification
	if activity.LikedBy(likerID) {
		return activity, nil
	}

	added, err := s.activityRepo.AddLike(ctx, activityID, likerID)
	if err != nil {
		return nil, err
	}

	activity, err = s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if added && activity.OwnerID != likerID {
		now := time.Now()
		s.hub.SendToUser(activity.OwnerID.Hex(), models.WSMessage{
			Type: models.WSEventActivityLike,
			Data: models.WSActivityLike{
				ActivityID: activity.ID.Hex(),
				OwnerID:    activity.OwnerID.Hex(),
				LikedBy:    userID,
				LikeCount:  len(activity.SocialData.Likes),
				Timestamp:  now,
			},
			UserID:    activity.OwnerID.Hex(),
			Timestamp: now,
		})
	}

	return activity, nil
}

// Unlike removes exactly the caller's like, if present.
func (s *ActivityService) Unlike(ctx context.Context, userID, activityID string) (*models.Activity, error) {
	likerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	if _, err := s.activityRepo.RemoveLike(ctx, activityID, likerID); err != nil {
		return nil, err
	}

	return s.activityRepo.GetByID(ctx, activityID)
}

func (s *ActivityService) AddComment(ctx context.Context, userID, activityID string, req models.CommentRequest) (*models.ActivityComment, error) {
	if validationErrors := s.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	commenterID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !activity.SharedWithUser(commenterID) {
		return nil, errors.New("access denied")
	}

	comment := models.ActivityComment{
		ID:        primitive.NewObjectID(),
		UserID:    commenterID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	if err := s.activityRepo.AddComment(ctx, activityID, comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (s *ActivityService) GetComments(ctx context.Context, userID, activityID string) ([]models.ActivityComment, error) {
	activity, err := s.Get(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	return activity.SocialData.Comments, nil
}

// Share marks the activity shared, either with everyone or a set of
// users. Unlocks the first-share achievement on first use.
func (s *ActivityService) Share(ctx context.Context, userID, activityID string, req models.ShareActivityRequest) error {
	if err := s.requireOwnership(ctx, userID, activityID); err != nil {
		return err
	}

	var targetIDs []primitive.ObjectID
	if !req.Everyone {
		if len(req.UserIDs) == 0 {
			return errors.New("no share targets provided")
		}
		for _, id := range utils.UniqueStrings(req.UserIDs) {
			objectID, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return errors.New("invalid share target ID")
			}
			targetIDs = append(targetIDs, objectID)
		}
	}

	if err := s.activityRepo.Share(ctx, activityID, targetIDs); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && !user.HasAchievement(models.AchievementFirstShare) {
		achievement := []models.Achievement{{
			Type:       models.AchievementFirstShare,
			UnlockedAt: time.Now(),
		}}
		// Streak data is unchanged; this write only appends the badge
		_ = s.userRepo.UpdateStreakData(ctx, userID, user.StreakData, achievement)
	}

	return nil
}

// GetFeed returns shared activities from accepted friends, newest first.
func (s *ActivityService) GetFeed(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	viewerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var friendIDs []primitive.ObjectID
	for _, f := range user.SocialData.Friends {
		if f.Status == models.FriendStatusAccepted {
			friendIDs = append(friendIDs, f.UserID)
		}
	}
	if len(friendIDs) == 0 {
		return []models.Activity{}, nil
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.activityRepo.GetFriendFeed(ctx, friendIDs, viewerID, limit)
}

func (s *ActivityService) requireOwnership(ctx context.Context, userID, activityID string) error {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity.OwnerID.Hex() != userID {
		return errors.New("access denied")
	}
	return nil
}
