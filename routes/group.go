// routes/group.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupGroupRoutes(rg *gin.RouterGroup, group *controllers.GroupController) {
	g := rg.Group("/groups")
	{
		g.POST("", group.CreateGroup)
		g.GET("", group.ListGroups)
		g.GET("/mine", group.ListMyGroups)
		g.GET("/:id", group.GetGroup)
		g.PUT("/:id", group.UpdateGroup)
		g.POST("/:id/join", group.JoinGroup)
		g.POST("/:id/leave", group.LeaveGroup)
		g.POST("/:id/invite", group.InviteToGroup)
		g.POST("/:id/accept-invitation", group.AcceptGroupInvitation)

		g.POST("/:id/challenges", group.CreateChallenge)
		g.GET("/:id/challenges/:challengeId", group.GetChallenge)
		g.POST("/:id/challenges/:challengeId/join", group.JoinChallenge)
		g.PUT("/:id/challenges/:challengeId/progress", group.UpdateChallengeProgress)

		g.POST("/:id/posts", group.CreatePost)
		g.GET("/:id/posts", group.ListPosts)
		g.POST("/:id/posts/:postId/reactions", group.ReactToPost)
	}
}
