// routes/content.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupContentRoutes(rg *gin.RouterGroup, content *controllers.ContentController) {
	group := rg.Group("/content")
	{
		group.POST("/generate", content.GenerateContent)
		group.GET("/daily", content.GetDailyAffirmation)
		group.POST("/activities", content.SaveGeneratedActivity)
	}
}
