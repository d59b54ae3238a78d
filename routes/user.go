// routes/user.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(rg *gin.RouterGroup, user *controllers.UserController) {
	group := rg.Group("/users")
	{
		group.GET("/me", user.GetMe)
		group.PUT("/me", user.UpdateMe)
		group.GET("/me/achievements", user.GetAchievements)
		group.GET("/me/streak", user.GetStreak)
		group.GET("/search", user.SearchUsers)
		group.GET("/:id", user.GetUser)
	}
}
