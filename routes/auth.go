// routes/auth.go
package routes

import (
	"wellnest/controllers"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(rg *gin.RouterGroup, auth *controllers.AuthController) {
	group := rg.Group("/auth")
	{
		group.POST("/register", auth.Register)
		group.POST("/login", auth.Login)
		group.POST("/refresh", auth.RefreshToken)
		group.POST("/logout", auth.Logout)
	}
}
