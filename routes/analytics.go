// routes/analytics.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, analytics *controllers.AnalyticsController) {
	group := rg.Group("/analytics")
	{
		group.GET("/trending", analytics.GetTrending)
		group.GET("/leaderboard", analytics.GetLeaderboard)
		group.GET("/insights", analytics.GetInsights)
	}
}
