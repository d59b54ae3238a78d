// controllers/activity_controller.go
package controllers

import (
	"errors"
	"strconv"

	"wellnest/models"
	"wellnest/repositories"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ActivityController struct {
	activityService *services.ActivityService
}

func NewActivityController(activityService *services.ActivityService) *ActivityController {
	return &ActivityController{
		activityService: activityService,
	}
}

// CreateActivity creates a user-authored activity
// @Summary Create activity
// @Description Create a new wellness activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateActivityRequest true "Activity data"
// @Success 201 {object} models.APIResponse{data=models.Activity}
// @Failure 400 {object} models.APIResponse
// @Router /activities [post]
func (ac *ActivityController) CreateActivity(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	activity, err := ac.activityService.Create(c.Request.Context(), userID, req)
	if err != nil {
		logrus.Errorf("Activity creation failed for %s: %v", userID, err)

		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			utils.InternalServerErrorResponse(c, "Failed to create activity")
		}
		return
	}

	utils.CreatedResponse(c, "Activity created", activity)
}

// ListActivities lists the user's activities with filters and paging
// @Summary List activities
// @Description List the user's activities
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param type query string false "Activity type filter"
// @Param category query string false "Category filter"
// @Param completed query bool false "Completion filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} models.APIResponse{data=[]models.Activity}
// @Router /activities [get]
func (ac *ActivityController) ListActivities(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	activities, total, err := ac.activityService.List(c.Request.Context(), userID, req)
	if err != nil {
		logrus.Errorf("Activity listing failed for %s: %v", userID, err)

		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid query parameters")
		default:
			utils.InternalServerErrorResponse(c, "Failed to load activities")
		}
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	utils.SuccessResponseWithMeta(c, "Activities retrieved", activities, utils.CreatePaginationMeta(page, pageSize, total))
}

// GetActivity returns one activity the caller may view
// @Summary Get activity
// @Description Get a single activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.APIResponse{data=models.Activity}
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /activities/{id} [get]
func (ac *ActivityController) GetActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	activity, err := ac.activityService.Get(c.Request.Context(), userID, activityID)
	if err != nil {
		ac.respondActivityError(c, err, "Failed to load activity")
		return
	}

	utils.SuccessResponse(c, "Activity retrieved", activity)
}

// UpdateActivity edits the caller's own activity
// @Summary Update activity
// @Description Update an activity's title, content or category
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body models.UpdateActivityRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.Activity}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /activities/{id} [put]
func (ac *ActivityController) UpdateActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	var req models.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	activity, err := ac.activityService.Update(c.Request.Context(), userID, activityID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		case "no fields to update":
			utils.BadRequestResponse(c, "No fields to update")
		default:
			ac.respondActivityError(c, err, "Failed to update activity")
		}
		return
	}

	utils.SuccessResponse(c, "Activity updated", activity)
}

// DeleteActivity soft-deletes the caller's own activity
// @Summary Delete activity
// @Description Soft-delete an activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /activities/{id} [delete]
func (ac *ActivityController) DeleteActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	if err := ac.activityService.Delete(c.Request.Context(), userID, activityID); err != nil {
		ac.respondActivityError(c, err, "Failed to delete activity")
		return
	}

	utils.SuccessResponse(c, "Activity deleted", nil)
}

// CompleteActivity records completion and returns the updated streak
// @Summary Complete activity
// @Description Mark an activity completed; advances the streak
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body models.CompleteActivityRequest true "Completion data"
// @Success 200 {object} models.APIResponse{data=models.StreakData}
// @Failure 409 {object} models.APIResponse
// @Router /activities/{id}/complete [post]
func (ac *ActivityController) CompleteActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	var req models.CompleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	streak, err := ac.activityService.Complete(c.Request.Context(), userID, activityID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrActivityAlreadyCompleted) {
			utils.ConflictResponse(c, "Activity is already completed")
			return
		}
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			ac.respondActivityError(c, err, "Failed to complete activity")
		}
		return
	}

	utils.SuccessResponse(c, "Activity completed", streak)
}

// LikeActivity adds the caller's like
// @Summary Like activity
// @Description Like a shared activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.APIResponse{data=models.Activity}
// @Failure 403 {object} models.APIResponse
// @Router /activities/{id}/like [post]
func (ac *ActivityController) LikeActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	activity, err := ac.activityService.Like(c.Request.Context(), userID, activityID)
	if err != nil {
		ac.respondActivityError(c, err, "Failed to like activity")
		return
	}

	utils.SuccessResponse(c, "Activity liked", activity)
}

// UnlikeActivity removes the caller's like
// @Summary Unlike activity
// @Description Remove a like from an activity
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.APIResponse{data=models.Activity}
// @Router /activities/{id}/like [delete]
func (ac *ActivityController) UnlikeActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	activity, err := ac.activityService.Unlike(c.Request.Context(), userID, activityID)
	if err != nil {
		ac.respondActivityError(c, err, "Failed to unlike activity")
		return
	}

	utils.SuccessResponse(c, "Like removed", activity)
}

// AddComment comments on an activity the caller may view
// @Summary Comment on activity
// @Description Add a comment to a shared activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body models.CommentRequest true "Comment text"
// @Success 201 {object} models.APIResponse{data=models.ActivityComment}
// @Failure 403 {object} models.APIResponse
// @Router /activities/{id}/comments [post]
func (ac *ActivityController) AddComment(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	comment, err := ac.activityService.AddComment(c.Request.Context(), userID, activityID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			ac.respondActivityError(c, err, "Failed to add comment")
		}
		return
	}

	utils.CreatedResponse(c, "Comment added", comment)
}

// GetComments lists an activity's comments
// @Summary Get comments
// @Description List an activity's comments
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.APIResponse{data=[]models.ActivityComment}
// @Router /activities/{id}/comments [get]
func (ac *ActivityController) GetComments(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	comments, err := ac.activityService.GetComments(c.Request.Context(), userID, activityID)
	if err != nil {
		ac.respondActivityError(c, err, "Failed to load comments")
		return
	}

	utils.SuccessResponse(c, "Comments retrieved", comments)
}

// ShareActivity shares the caller's activity with friends or everyone
// @Summary Share activity
// @Description Share an activity with selected users or everyone
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body models.ShareActivityRequest true "Share targets"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /activities/{id}/share [post]
func (ac *ActivityController) ShareActivity(c *gin.Context) {
	userID := utils.GetUserID(c)
	activityID := c.Param("id")

	var req models.ShareActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := ac.activityService.Share(c.Request.Context(), userID, activityID, req); err != nil {
		switch err.Error() {
		case "no share targets provided":
			utils.BadRequestResponse(c, "Provide user IDs or share with everyone")
		case "invalid share target ID":
			utils.BadRequestResponse(c, "Invalid share target ID")
		default:
			ac.respondActivityError(c, err, "Failed to share activity")
		}
		return
	}

	utils.SuccessResponse(c, "Activity shared", nil)
}

// GetFeed returns shared activities from accepted friends
// @Summary Get friend feed
// @Description List recent shared activities from friends
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max results"
// @Success 200 {object} models.APIResponse{data=[]models.Activity}
// @Router /activities/feed [get]
func (ac *ActivityController) GetFeed(c *gin.Context) {
	userID := utils.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	feed, err := ac.activityService.GetFeed(c.Request.Context(), userID, limit)
	if err != nil {
		logrus.Errorf("Feed load failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load feed")
		return
	}

	utils.SuccessResponse(c, "Feed retrieved", feed)
}

func (ac *ActivityController) respondActivityError(c *gin.Context, err error, fallback string) {
	switch err.Error() {
	case "activity not found", "invalid activity ID":
		utils.NotFoundResponse(c, "Activity")
	case "access denied":
		utils.ForbiddenResponse(c, "You don't have access to this activity")
	case "invalid user ID":
		utils.BadRequestResponse(c, "Invalid user ID")
	default:
		logrus.Errorf("%s: %v", fallback, err)
		utils.InternalServerErrorResponse(c, fallback)
	}
}
