// controllers/social_controller.go
package controllers

import (
	"errors"

	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SocialController struct {
	friendService *services.FriendService
}

func NewSocialController(friendService *services.FriendService) *SocialController {
	return &SocialController{
		friendService: friendService,
	}
}

// SendFriendRequest sends a friend request to another user
// @Summary Send friend request
// @Description Send a friend request
// @Tags Social
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{userId=string} true "Target user ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /social/friends/requests [post]
func (sc *SocialController) SendFriendRequest(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Target user ID is required")
		return
	}

	if err := sc.friendService.SendRequest(c.Request.Context(), userID, req.UserID); err != nil {
		sc.respondFriendError(c, err, "Failed to send friend request")
		return
	}

	utils.SuccessResponse(c, "Friend request sent", nil)
}

// AcceptFriendRequest accepts a pending request from another user
// @Summary Accept friend request
// @Description Accept a pending friend request
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "Requester user ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /social/friends/requests/{id}/accept [post]
func (sc *SocialController) AcceptFriendRequest(c *gin.Context) {
	userID := utils.GetUserID(c)
	requesterID := c.Param("id")

	if err := sc.friendService.AcceptRequest(c.Request.Context(), userID, requesterID); err != nil {
		sc.respondFriendError(c, err, "Failed to accept friend request")
		return
	}

	utils.SuccessResponse(c, "Friend request accepted", nil)
}

// RemoveFriend removes a friend or declines a pending request
// @Summary Remove friend
// @Description Remove a friendship or pending request from both sides
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param id path string true "Friend user ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /social/friends/{id} [delete]
func (sc *SocialController) RemoveFriend(c *gin.Context) {
	userID := utils.GetUserID(c)
	friendID := c.Param("id")

	if err := sc.friendService.Remove(c.Request.Context(), userID, friendID); err != nil {
		sc.respondFriendError(c, err, "Failed to remove friend")
		return
	}

	utils.SuccessResponse(c, "Friend removed", nil)
}

// ListFriends lists accepted friends
// @Summary List friends
// @Description List the user's accepted friends
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.PublicProfile}
// @Router /social/friends [get]
func (sc *SocialController) ListFriends(c *gin.Context) {
	userID := utils.GetUserID(c)

	friends, err := sc.friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Friend listing failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load friends")
		return
	}

	utils.SuccessResponse(c, "Friends retrieved", friends)
}

// ListFriendRequests lists pending requests, sent or received
// @Summary List friend requests
// @Description List pending friend requests by direction
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param direction query string false "sent or received" default(received)
// @Success 200 {object} models.APIResponse{data=[]models.FriendEntry}
// @Router /social/friends/requests [get]
func (sc *SocialController) ListFriendRequests(c *gin.Context) {
	userID := utils.GetUserID(c)
	direction := c.DefaultQuery("direction", "received")

	requests, err := sc.friendService.ListRequests(c.Request.Context(), userID, direction)
	if err != nil {
		logrus.Errorf("Friend request listing failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load friend requests")
		return
	}

	utils.SuccessResponse(c, "Friend requests retrieved", requests)
}

func (sc *SocialController) respondFriendError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrSelfFriendRequest):
		utils.BadRequestResponse(c, "You cannot send a friend request to yourself")
	case errors.Is(err, models.ErrFriendRequestExists):
		utils.ConflictResponse(c, "A friend request already exists between these users")
	case errors.Is(err, models.ErrAlreadyFriends):
		utils.ConflictResponse(c, "You are already friends")
	case errors.Is(err, models.ErrFriendRequestNotFound):
		utils.NotFoundResponse(c, "Friend request")
	case err.Error() == "user not found" || err.Error() == "invalid user ID":
		utils.NotFoundResponse(c, "User")
	case err.Error() == "cannot accept your own request":
		utils.ForbiddenResponse(c, "Only the recipient can accept this request")
	default:
		logrus.Errorf("%s: %v", fallback, err)
		utils.InternalServerErrorResponse(c, fallback)
	}
}
