// controllers/content_controller.go
package controllers

import (
	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ContentController struct {
	contentService  *services.ContentService
	activityService *services.ActivityService
}

func NewContentController(contentService *services.ContentService, activityService *services.ActivityService) *ContentController {
	return &ContentController{
		contentService:  contentService,
		activityService: activityService,
	}
}

// GenerateContent produces personalized content of the requested kind
// @Summary Generate content
// @Description Generate a personalized affirmation, activity, prompt, tip or motivation
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateContentRequest true "Content kind"
// @Success 200 {object} models.APIResponse{data=models.GeneratedContent}
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /content/generate [post]
func (cc *ContentController) GenerateContent(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	content, err := cc.contentService.Generate(c.Request.Context(), userID, req)
	if err != nil {
		logrus.Errorf("Content generation failed for %s: %v", userID, err)

		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Unknown content kind")
		case "user not found":
			utils.NotFoundResponse(c, "User")
		default:
			utils.ServiceUnavailableResponse(c, "content generation")
		}
		return
	}

	utils.SuccessResponse(c, "Content generated", content)
}

// GetDailyAffirmation returns today's affirmation for the user
// @Summary Get daily affirmation
// @Description Get the cached affirmation for today, generating it on first call
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.GeneratedContent}
// @Failure 503 {object} models.APIResponse
// @Router /content/daily [get]
func (cc *ContentController) GetDailyAffirmation(c *gin.Context) {
	userID := utils.GetUserID(c)

	content, err := cc.contentService.GetDailyAffirmation(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Daily affirmation failed for %s: %v", userID, err)

		switch err.Error() {
		case "user not found":
			utils.NotFoundResponse(c, "User")
		default:
			utils.ServiceUnavailableResponse(c, "content generation")
		}
		return
	}

	utils.SuccessResponse(c, "Daily affirmation", content)
}

// SaveGeneratedActivity stores a generated activity as the user's own
// @Summary Save generated activity
// @Description Persist a generated activity so it can be completed and shared
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GeneratedActivity true "Generated activity"
// @Success 201 {object} models.APIResponse{data=models.Activity}
// @Failure 400 {object} models.APIResponse
// @Router /content/activities [post]
func (cc *ContentController) SaveGeneratedActivity(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.GeneratedActivity
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Description == "" {
		utils.BadRequestResponse(c, "Title and description are required")
		return
	}

	user, exists := c.Get("user")
	category := ""
	if exists {
		if u, ok := user.(*models.User); ok {
			category = u.PrimaryGoal
		}
	}

	activity, err := cc.activityService.CreateGenerated(c.Request.Context(), userID, req, category)
	if err != nil {
		logrus.Errorf("Saving generated activity failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to save activity")
		return
	}

	utils.CreatedResponse(c, "Activity saved", activity)
}
