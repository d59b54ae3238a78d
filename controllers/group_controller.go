// controllers/group_controller.go
package controllers

import (
	"errors"
	"strconv"

	"wellnest/models"
	"wellnest/services"
	"wellnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type GroupController struct {
	groupService *services.GroupService
}

func NewGroupController(groupService *services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// CreateGroup creates a group with the caller as admin
// @Summary Create group
// @Description Create a new wellness group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateGroupRequest true "Group data"
// @Success 201 {object} models.APIResponse{data=models.Group}
// @Failure 400 {object} models.APIResponse
// @Router /groups [post]
func (gc *GroupController) CreateGroup(c *gin.Context) {
	userID := utils.GetUserID(c)

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	group, err := gc.groupService.Create(c.Request.Context(), userID, req)
	if err != nil {
		logrus.Errorf("Group creation failed for %s: %v", userID, err)

		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			utils.InternalServerErrorResponse(c, "Failed to create group")
		}
		return
	}

	utils.CreatedResponse(c, "Group created", group)
}

// GetGroup returns one group the caller may view
// @Summary Get group
// @Description Get a group's details
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} models.APIResponse{data=models.Group}
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /groups/{id} [get]
func (gc *GroupController) GetGroup(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	group, err := gc.groupService.Get(c.Request.Context(), userID, groupID)
	if err != nil {
		gc.respondGroupError(c, err, "Failed to load group")
		return
	}

	utils.SuccessResponse(c, "Group retrieved", group)
}

// UpdateGroup edits group settings; admins and moderators only
// @Summary Update group
// @Description Update a group's name, description, privacy or capacity
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body models.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} models.APIResponse{data=models.Group}
// @Failure 403 {object} models.APIResponse
// @Router /groups/{id} [put]
func (gc *GroupController) UpdateGroup(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	var req models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	group, err := gc.groupService.Update(c.Request.Context(), userID, groupID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		case "no fields to update":
			utils.BadRequestResponse(c, "No fields to update")
		case "max members below current member count":
			utils.BadRequestResponse(c, "Max members cannot be below the current member count")
		default:
			gc.respondGroupError(c, err, "Failed to update group")
		}
		return
	}

	utils.SuccessResponse(c, "Group updated", group)
}

// ListGroups lists public groups
// @Summary List public groups
// @Description List recently created public groups
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max results"
// @Param mine query bool false "Only groups I belong to"
// @Success 200 {object} models.APIResponse{data=[]models.Group}
// @Router /groups [get]
func (gc *GroupController) ListGroups(c *gin.Context) {
	if c.Query("mine") == "1" || c.Query("mine") == "true" {
		gc.ListMyGroups(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	groups, err := gc.groupService.ListPublic(c.Request.Context(), limit)
	if err != nil {
		logrus.Errorf("Group listing failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to load groups")
		return
	}

	utils.SuccessResponse(c, "Groups retrieved", groups)
}

// ListMyGroups lists the caller's groups
// @Summary List my groups
// @Description List groups the user is an active member of
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Group}
// @Router /groups/mine [get]
func (gc *GroupController) ListMyGroups(c *gin.Context) {
	userID := utils.GetUserID(c)

	groups, err := gc.groupService.ListMine(c.Request.Context(), userID)
	if err != nil {
		logrus.Errorf("Group listing failed for %s: %v", userID, err)
		utils.InternalServerErrorResponse(c, "Failed to load groups")
		return
	}

	utils.SuccessResponse(c, "Groups retrieved", groups)
}

// JoinGroup joins a public group
// @Summary Join group
// @Description Join a public group directly
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /groups/{id}/join [post]
func (gc *GroupController) JoinGroup(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	if err := gc.groupService.Join(c.Request.Context(), userID, groupID); err != nil {
		gc.respondGroupError(c, err, "Failed to join group")
		return
	}

	utils.SuccessResponse(c, "Joined group", nil)
}

// LeaveGroup leaves a group
// @Summary Leave group
// @Description Leave a group, keeping membership history
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /groups/{id}/leave [post]
func (gc *GroupController) LeaveGroup(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	if err := gc.groupService.Leave(c.Request.Context(), userID, groupID); err != nil {
		gc.respondGroupError(c, err, "Failed to leave group")
		return
	}

	utils.SuccessResponse(c, "Left group", nil)
}

// InviteToGroup invites another user to the group
// @Summary Invite to group
// @Description Send a realtime group invitation to a user
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body object{userId=string} true "Invitee user ID"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /groups/{id}/invite [post]
func (gc *GroupController) InviteToGroup(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invitee user ID is required")
		return
	}

	if err := gc.groupService.Invite(c.Request.Context(), userID, groupID, req.UserID); err != nil {
		gc.respondGroupError(c, err, "Failed to send invitation")
		return
	}

	utils.SuccessResponse(c, "Invitation sent", nil)
}

// AcceptGroupInvitation joins a group from an invitation
// @Summary Accept group invitation
// @Description Join a group, including private ones, after being invited
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /groups/{id}/accept-invitation [post]
func (gc *GroupController) AcceptGroupInvitation(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	if err := gc.groupService.AcceptInvitation(c.Request.Context(), userID, groupID); err != nil {
		gc.respondGroupError(c, err, "Failed to join group")
		return
	}

	utils.SuccessResponse(c, "Joined group", nil)
}

// CreateChallenge creates a group challenge; moderators only
// @Summary Create challenge
// @Description Create a challenge inside a group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body models.CreateChallengeRequest true "Challenge data"
// @Success 201 {object} models.APIResponse{data=models.Challenge}
// @Failure 403 {object} models.APIResponse
// @Router /groups/{id}/challenges [post]
func (gc *GroupController) CreateChallenge(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	var req models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	challenge, err := gc.groupService.CreateChallenge(c.Request.Context(), userID, groupID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		case "challenge end must be after start":
			utils.BadRequestResponse(c, "Challenge end must be after its start")
		default:
			gc.respondGroupError(c, err, "Failed to create challenge")
		}
		return
	}

	utils.CreatedResponse(c, "Challenge created", challenge)
}

// GetChallenge returns a challenge with participant progress
// @Summary Get challenge
// @Description Get a challenge's details and participant progress
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} models.APIResponse{data=models.Challenge}
// @Failure 404 {object} models.APIResponse
// @Router /groups/{id}/challenges/{challengeId} [get]
func (gc *GroupController) GetChallenge(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")
	challengeID := c.Param("challengeId")

	challenge, err := gc.groupService.GetChallenge(c.Request.Context(), userID, groupID, challengeID)
	if err != nil {
		gc.respondGroupError(c, err, "Failed to load challenge")
		return
	}

	utils.SuccessResponse(c, "Challenge retrieved", challenge)
}

// JoinChallenge enrolls the caller in a challenge
// @Summary Join challenge
// @Description Join a group challenge with zero progress
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /groups/{id}/challenges/{challengeId}/join [post]
func (gc *GroupController) JoinChallenge(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")
	challengeID := c.Param("challengeId")

	if err := gc.groupService.JoinChallenge(c.Request.Context(), userID, groupID, challengeID); err != nil {
		gc.respondGroupError(c, err, "Failed to join challenge")
		return
	}

	utils.SuccessResponse(c, "Joined challenge", nil)
}

// UpdateChallengeProgress reports the caller's progress
// @Summary Update challenge progress
// @Description Report progress; broadcast to the group in realtime
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param challengeId path string true "Challenge ID"
// @Param request body models.ChallengeProgressRequest true "Progress value"
// @Success 200 {object} models.APIResponse{data=models.ChallengeParticipant}
// @Failure 404 {object} models.APIResponse
// @Router /groups/{id}/challenges/{challengeId}/progress [put]
func (gc *GroupController) UpdateChallengeProgress(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")
	challengeID := c.Param("challengeId")

	var req models.ChallengeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	participant, err := gc.groupService.UpdateChallengeProgress(c.Request.Context(), userID, groupID, challengeID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		case "challenge has ended":
			utils.ConflictResponse(c, "This challenge has ended")
		default:
			gc.respondGroupError(c, err, "Failed to update progress")
		}
		return
	}

	utils.SuccessResponse(c, "Progress updated", participant)
}

// CreatePost posts to the group feed
// @Summary Create group post
// @Description Share a post with group members
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body models.CreatePostRequest true "Post text"
// @Success 201 {object} models.APIResponse{data=models.GroupPost}
// @Failure 403 {object} models.APIResponse
// @Router /groups/{id}/posts [post]
func (gc *GroupController) CreatePost(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	post, err := gc.groupService.CreatePost(c.Request.Context(), userID, groupID, req)
	if err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid input data")
		default:
			gc.respondGroupError(c, err, "Failed to create post")
		}
		return
	}

	utils.CreatedResponse(c, "Post created", post)
}

// ListPosts lists the group feed
// @Summary List group posts
// @Description List posts in a group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} models.APIResponse{data=[]models.GroupPost}
// @Router /groups/{id}/posts [get]
func (gc *GroupController) ListPosts(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")

	posts, err := gc.groupService.ListPosts(c.Request.Context(), userID, groupID)
	if err != nil {
		gc.respondGroupError(c, err, "Failed to load posts")
		return
	}

	utils.SuccessResponse(c, "Posts retrieved", posts)
}

// ReactToPost adds or replaces the caller's reaction on a post
// @Summary React to post
// @Description React to a group post with cheer, heart or clap
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param postId path string true "Post ID"
// @Param request body models.PostReactionRequest true "Reaction kind"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /groups/{id}/posts/{postId}/reactions [post]
func (gc *GroupController) ReactToPost(c *gin.Context) {
	userID := utils.GetUserID(c)
	groupID := c.Param("id")
	postID := c.Param("postId")

	var req models.PostReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := gc.groupService.ReactToPost(c.Request.Context(), userID, groupID, postID, req); err != nil {
		switch err.Error() {
		case "validation failed":
			utils.BadRequestResponse(c, "Invalid reaction kind")
		case "post not found", "invalid post ID":
			utils.NotFoundResponse(c, "Post")
		default:
			gc.respondGroupError(c, err, "Failed to react to post")
		}
		return
	}

	utils.SuccessResponse(c, "Reaction recorded", nil)
}

func (gc *GroupController) respondGroupError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrGroupFull):
		utils.ConflictResponse(c, "This group is full")
	case errors.Is(err, models.ErrGroupPrivate):
		utils.ForbiddenResponse(c, "This group is private; ask a member for an invitation")
	case errors.Is(err, models.ErrAlreadyMember):
		utils.ConflictResponse(c, "You are already a member of this group")
	case errors.Is(err, models.ErrNotMember):
		utils.ForbiddenResponse(c, "You are not a member of this group")
	case errors.Is(err, models.ErrNotInvited):
		utils.ForbiddenResponse(c, "You have no pending invitation to this group")
	case errors.Is(err, models.ErrAlreadyInvited):
		utils.ConflictResponse(c, "That user already has a pending invitation")
	case errors.Is(err, models.ErrChallengeNotFound):
		utils.NotFoundResponse(c, "Challenge")
	case errors.Is(err, models.ErrNotParticipant):
		utils.ForbiddenResponse(c, "Join the challenge before reporting progress")
	case errors.Is(err, models.ErrAlreadyParticipating):
		utils.ConflictResponse(c, "You are already participating in this challenge")
	case err.Error() == "group not found" || err.Error() == "invalid group ID":
		utils.NotFoundResponse(c, "Group")
	case err.Error() == "invalid challenge ID":
		utils.NotFoundResponse(c, "Challenge")
	case err.Error() == "user not found" || err.Error() == "invalid user ID":
		utils.NotFoundResponse(c, "User")
	case err.Error() == "access denied":
		utils.ForbiddenResponse(c, "You don't have permission to do that")
	default:
		logrus.Errorf("%s: %v", fallback, err)
		utils.InternalServerErrorResponse(c, fallback)
	}
}
