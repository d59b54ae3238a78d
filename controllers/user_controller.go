// controllers/user_controller.go
package controllers

import (
	"strconv"

	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetMe returns the authenticated user's full profile
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 401 {object} models.APIResponse
// @Router /users/me [get]
func (uc *UserController) GetMe(c *gin.Context) {
	userID := utils.GetUserID(c)

	user, err := uc.userService.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Failed to get profile for %s: %v", userID, err)
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", user)
}

// UpdateMe updates the authenticated user's profile
// @Summary Update current user
// @Description Update profile fields, mood, goal, preferences or privacy
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} models.APIResponse
// @Router /users/me [put]
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, err := uc.userService.UpdateUserProfile(c.Request.Context(), userID, req)
	if err != nil {
		logrus.Errorf("Profile update failed for %s: %v", userID, err)

		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		case "invalid timezone":
			utils.BadRequestResponse(c, "Unknown timezone identifier")
		case "no fields to update":
			utils.BadRequestResponse(c, "No fields to update")
		case "user not found":
			utils.NotFoundResponse(c, "User")
		default:
			utils.InternalServerErrorResponse(c, "Failed to update profile")
		}
		return
	}

	utils.SuccessResponse(c, "Profile updated", user)
}

// GetUser returns another user's public profile, trimmed by privacy
// @Summary Get user profile
// @Description Get a user's public profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.APIResponse{data=models.PublicProfile}
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	viewerID := utils.GetUserID(c)
	targetID := c.Param("id")

	profile, err := uc.userService.GetPublicProfile(c.Request.Context(), viewerID, targetID)
	if err != nil {
		switch err.Error() {
		case "user not found", "invalid user ID":
			utils.NotFoundResponse(c, "User")
		default:
			logrus.Errorf("Failed to get public profile %s: %v", targetID, err)
			utils.InternalServerErrorResponse(c, "Failed to load profile")
		}
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", profile)
}

// SearchUsers searches users by username or name
// @Summary Search users
// @Description Search users by username prefix or name
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param limit query int false "Max results"
// @Success 200 {object} models.APIResponse{data=[]models.PublicProfile}
// @Failure 400 {object} models.APIResponse
// @Router /users/search [get]
func (uc *UserController) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if len(query) < 2 {
		utils.BadRequestResponse(c, "Search query must be at least 2 characters")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	profiles, err := uc.userService.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		logrus.Errorf("User search failed: %v", err)
		utils.InternalServerErrorResponse(c, "Search failed")
		return
	}

	utils.SuccessResponse(c, "Search results", profiles)
}

// GetAchievements lists the authenticated user's unlocked achievements
// @Summary Get achievements
// @Description List the user's unlocked achievements
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Achievement}
// @Router /users/me/achievements [get]
func (uc *UserController) GetAchievements(c *gin.Context) {
	userID := utils.GetUserID(c)

	achievements, err := uc.userService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Failed to get achievements for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load achievements")
		return
	}

	utils.SuccessResponse(c, "Achievements retrieved", achievements)
}

// GetStreak returns the authenticated user's streak counters
// @Summary Get streak
// @Description Get current and longest streak plus completion total
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.StreakData}
// @Router /users/me/streak [get]
func (uc *UserController) GetStreak(c *gin.Context) {
	userID := utils.GetUserID(c)

	user, err := uc.userService.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, "Streak retrieved", user.StreakData)
}
