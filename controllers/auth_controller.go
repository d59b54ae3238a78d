// controllers/auth_controller.go
package controllers

import (
	"strings"

	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.APIResponse{data=models.AuthResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	response, err := ac.authService.Register(c.Request.Context(), req)
	if err != nil {
		logrus.Errorf("Registration failed: %v", err)

		switch err.Error() {
		case "user with this email already exists":
			utils.ConflictResponse(c, "An account with this email already exists")
		case "username is already taken":
			utils.ConflictResponse(c, "This username is already taken")
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			utils.InternalServerErrorResponse(c, "Failed to create account")
		}
		return
	}

	utils.CreatedResponse(c, "Account created successfully", response)
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate user and return tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.AuthResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		logrus.Errorf("Login failed: %v", err)

		switch err.Error() {
		case "invalid email or password":
			utils.UnauthorizedResponse(c, "Invalid email or password")
		case "account is deactivated":
			utils.UnauthorizedResponse(c, "Account is deactivated")
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			utils.InternalServerErrorResponse(c, "Authentication failed")
		}
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Exchange refresh token for new access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} models.APIResponse{data=utils.TokenPair}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/refresh [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Refresh token is required")
		return
	}

	tokens, err := ac.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logrus.Debugf("Token refresh failed: %v", err)
		utils.UnauthorizedResponse(c, "Invalid or expired refresh token")
		return
	}

	utils.SuccessResponse(c, "Tokens refreshed", tokens)
}

// Logout revokes the current access token
// @Summary Logout user
// @Description Revoke the presented access token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		utils.UnauthorizedResponse(c, "Authentication token required")
		return
	}

	if err := ac.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		logrus.Errorf("Logout failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to log out")
		return
	}

	utils.SuccessResponse(c, "Logged out successfully", nil)
}
