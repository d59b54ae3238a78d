package services

import (
	"context"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type UserService struct {
	userRepo  *repositories.UserRepository
	validator *utils.ValidationService
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validator: utils.NewValidationService(),
	}
}

func (us *UserService) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := us.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (us *UserService) UpdateUserProfile(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	if validationErrors := us.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	update := bson.M{}

	if req.FirstName != nil {
		update["profile.firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		update["profile.lastName"] = *req.LastName
	}
	if req.Avatar != nil {
		update["profile.avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		update["profile.bio"] = *req.Bio
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, errors.New("invalid timezone")
		}
		update["profile.timezone"] = *req.Timezone
	}
	if req.CurrentMood != nil {
		update["currentMood"] = *req.CurrentMood
	}
	if req.PrimaryGoal != nil {
		update["primaryGoal"] = *req.PrimaryGoal
	}
	if req.Preferences != nil {
		update["preferences"] = *req.Preferences
	}
	if req.Privacy != nil {
		update["socialData.privacy"] = *req.Privacy
	}

	if len(update) == 0 {
		return nil, errors.New("no fields to update")
	}

	if err := us.userRepo.Update(ctx, userID, update); err != nil {
		return nil, err
	}

	return us.GetUserProfile(ctx, userID)
}

// GetPublicProfile returns another user's profile trimmed by their
// privacy settings relative to the viewer.
func (us *UserService) GetPublicProfile(ctx context.Context, viewerID, targetID string) (*models.PublicProfile, error) {
	target, err := us.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, errors.New("user not found")
	}

	viewer, err := us.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profile := target.PublicView(target.IsFriendWith(viewer.ID))
	return &profile, nil
}

func (us *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error) {
	if len(query) < 2 {
		return nil, errors.New("search query must be at least 2 characters")
	}

	if limit <= 0 || limit > 50 {
		limit = 20
	}

	users, err := us.userRepo.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicView(false))
	}

	return profiles, nil
}

func (us *UserService) GetAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	user, err := us.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Achievements, nil
}

// ApplyCompletion advances the user's streak counters for one completion
// event and unlocks any threshold achievements it earns. Returns the
// updated streak data.
func (us *UserService) ApplyCompletion(ctx context.Context, userID string, completedAt time.Time) (*models.StreakData, error) {
	user, err := us.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	advanced := user.StreakData.Advance(user.Location(), completedAt)

	var unlocked []models.Achievement
	for _, achievementType := range user.PendingAchievements(advanced) {
		unlocked = append(unlocked, models.Achievement{
			Type:       achievementType,
			UnlockedAt: completedAt,
		})
	}

	if err := us.userRepo.UpdateStreakData(ctx, userID, advanced, unlocked); err != nil {
		return nil, err
	}

	return &advanced, nil
}
