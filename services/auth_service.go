package services

import (
	"context"
	"errors"
	"time"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo        *repositories.UserRepository
	jwtService      *utils.JWTService
	passwordService *utils.PasswordService
	validator       *utils.ValidationService
	redis           *redis.Client
}

func NewAuthService(userRepo *repositories.UserRepository, jwtService *utils.JWTService, redis *redis.Client) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		jwtService:      jwtService,
		passwordService: utils.NewPasswordService(),
		validator:       utils.NewValidationService(),
		redis:           redis,
	}
}

func (as *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	// Validate request
	if validationErrors := as.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	// Check if user already exists
	if existingUser, _ := as.userRepo.GetByEmail(ctx, req.Email); existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}
	if existingUser, _ := as.userRepo.GetByUsername(ctx, req.Username); existingUser != nil {
		return nil, errors.New("username is already taken")
	}

	// Hash password
	hashedPassword, err := as.passwordService.HashPassword(req.Password)
	if err != nil {
		logrus.Error("Failed to hash password: ", err)
		return nil, errors.New("failed to create user")
	}

	mood := req.CurrentMood
	if mood == "" {
		mood = models.MoodCalm
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Profile: models.UserProfile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Timezone:  req.Timezone,
		},
		CurrentMood: mood,
		PrimaryGoal: req.PrimaryGoal,
		Preferences: models.UserPreferences{
			Notifications: models.NotificationPrefs{
				DailyAffirmation: true,
				FriendActivity:   true,
				ChallengeUpdates: true,
			},
			Content: models.ContentPrefs{
				Tone: "gentle",
			},
			Theme: "auto",
		},
		SocialData: models.SocialData{
			Friends: []models.FriendEntry{},
			Groups:  []models.GroupMembership{},
			Privacy: models.PrivacySettings{
				ProfileVisibility: models.VisibilityFriends,
				ShareStreak:       true,
				ShareActivity:     true,
			},
		},
		Achievements: []models.Achievement{},
	}

	if err := as.userRepo.Create(ctx, &user); err != nil {
		logrus.Error("Failed to create user: ", err)
		if err.Error() == "user already exists" {
			return nil, errors.New("user with this email already exists")
		}
		return nil, errors.New("failed to create user")
	}

	tokenPair, err := as.jwtService.GenerateTokenPair(user.ID.Hex(), user.Email)
	if err != nil {
		logrus.Error("Failed to generate tokens: ", err)
		return nil, errors.New("failed to generate authentication tokens")
	}

	user.Password = ""

	return &models.AuthResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    tokenPair.TokenType,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (as *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if validationErrors := as.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, errors.New("validation failed")
	}

	user, err := as.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := as.passwordService.ComparePassword(user.Password, req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	tokenPair, err := as.jwtService.GenerateTokenPair(user.ID.Hex(), user.Email)
	if err != nil {
		logrus.Error("Failed to generate tokens: ", err)
		return nil, errors.New("failed to generate authentication tokens")
	}

	// Best effort: a failed last-login update must not block the login
	go func(userID string) {
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := as.userRepo.UpdateLastLogin(updateCtx, userID); err != nil {
			logrus.Warnf("Failed to update last login for %s: %v", userID, err)
		}
	}(user.ID.Hex())

	user.Password = ""

	return &models.AuthResponse{
		User:         *user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    tokenPair.TokenType,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	revoked, err := as.isTokenRevoked(ctx, refreshToken)
	if err != nil {
		logrus.Warnf("Token revocation check failed: %v", err)
	}
	if revoked {
		return nil, errors.New("token has been revoked")
	}

	tokenPair, err := as.jwtService.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	return tokenPair, nil
}

// Logout revokes the presented token by blacklisting its ID in redis
// until the token would have expired anyway.
func (as *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := as.jwtService.ValidateToken(tokenString)
	if err != nil {
		return errors.New("invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	key := "token_blacklist:" + claims.ID
	if err := as.redis.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		logrus.Errorf("Failed to blacklist token: %v", err)
		return errors.New("failed to revoke token")
	}

	return nil
}

// IsTokenRevoked reports whether the token's ID is on the blacklist.
func (as *AuthService) IsTokenRevoked(ctx context.Context, claims *utils.Claims) bool {
	exists, err := as.redis.Exists(ctx, "token_blacklist:"+claims.ID).Result()
	if err != nil {
		logrus.Warnf("Token blacklist lookup failed: %v", err)
		return false
	}
	return exists > 0
}

func (as *AuthService) isTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	claims, err := as.jwtService.ValidateToken(tokenString)
	if err != nil {
		return false, nil
	}

	exists, err := as.redis.Exists(ctx, "token_blacklist:"+claims.ID).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
