// routes/social.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupSocialRoutes(rg *gin.RouterGroup, social *controllers.SocialController) {
	group := rg.Group("/social")
	{
		group.GET("/friends", social.ListFriends)
		group.DELETE("/friends/:id", social.RemoveFriend)
		group.GET("/friends/requests", social.ListFriendRequests)
		group.POST("/friends/requests", social.SendFriendRequest)
		group.POST("/friends/requests/:id/accept", social.AcceptFriendRequest)
	}
}
