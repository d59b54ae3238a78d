// routes/activity.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupActivityRoutes(rg *gin.RouterGroup, activity *controllers.ActivityController) {
	group := rg.Group("/activities")
	{
		group.POST("", activity.CreateActivity)
		group.GET("", activity.ListActivities)
		group.GET("/feed", activity.GetFeed)
		group.GET("/:id", activity.GetActivity)
		group.PUT("/:id", activity.UpdateActivity)
		group.DELETE("/:id", activity.DeleteActivity)
		group.POST("/:id/complete", activity.CompleteActivity)
		group.POST("/:id/like", activity.LikeActivity)
		group.DELETE("/:id/like", activity.UnlikeActivity)
		group.GET("/:id/comments", activity.GetComments)
		group.POST("/:id/comments", activity.AddComment)
		group.POST("/:id/share", activity.ShareActivity)
	}
}
