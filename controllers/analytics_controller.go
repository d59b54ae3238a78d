// controllers/analytics_controller.go
package controllers

import (
	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// GetTrending returns the trending shared activities
// @Summary Get trending activities
// @Description Rank shared activities by likes + 2x comments
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param window query string false "day, week, month or all" default(week)
// @Param limit query int false "Max results"
// @Success 200 {object} models.APIResponse{data=[]models.TrendingActivity}
// @Failure 400 {object} models.APIResponse
// @Router /analytics/trending [get]
func (ac *AnalyticsController) GetTrending(c *gin.Context) {
	var req models.TrendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	trending, err := ac.analyticsService.GetTrending(c.Request.Context(), req)
	if err != nil {
		if err.Error() == "validation failed" {
			utils.BadRequestResponse(c, "Invalid query parameters")
			return
		}
		logrus.Errorf("Trending query failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to load trending activities")
		return
	}

	utils.SuccessResponse(c, "Trending activities", trending)
}

// GetLeaderboard ranks users by streak, completions or likes
// @Summary Get leaderboard
// @Description Rank users by a chosen dimension
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param by query string false "streak, completed or likes" default(streak)
// @Param window query string false "day, week, month or all (likes only)" default(all)
// @Param limit query int false "Max results"
// @Success 200 {object} models.APIResponse{data=[]models.LeaderboardEntry}
// @Failure 400 {object} models.APIResponse
// @Router /analytics/leaderboard [get]
func (ac *AnalyticsController) GetLeaderboard(c *gin.Context) {
	var req models.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	entries, err := ac.analyticsService.GetLeaderboard(c.Request.Context(), req)
	if err != nil {
		switch err.Error() {
		case "validation failed", "unknown leaderboard dimension":
			utils.BadRequestResponse(c, "Invalid query parameters")
		default:
			logrus.Errorf("Leaderboard query failed: %v", err)
			utils.InternalServerErrorResponse(c, "Failed to load leaderboard")
		}
		return
	}

	utils.SuccessResponse(c, "Leaderboard", entries)
}

// GetInsights returns the user's rule-based wellness insights
// @Summary Get insights
// @Description Deterministic insights over the last month of completions
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Insight}
// @Router /analytics/insights [get]
func (ac *AnalyticsController) GetInsights(c *gin.Context) {
	userID := utils.GetUserID(c)

	insights, err := ac.analyticsService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Insights query failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load insights")
		return
	}

	utils.SuccessResponse(c, "Insights", insights)
}
