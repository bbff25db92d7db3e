package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
	Hub          *service.ChatHub
}

func NewGroupController(groupService *service.GroupService, hub *service.ChatHub) *GroupController {
	return &GroupController{GroupService: groupService, Hub: hub}
}

// ListGroups godoc
// @Summary List groups
// @Description Admins see every group; members see the groups they belong to.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groups, err := c.GroupService.List(claims.UserID, claims.Role)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// GetGroup godoc
// @Summary Get one group with its members
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} util.Response{data=model.Group}
// @Failure 404 {object} util.Response
// @Router /api/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	group, err := c.GroupService.GetByID(id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// Messages godoc
// @Summary Get a group's message history
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/groups/{id}/messages [get]
func (c *GroupController) Messages(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if !c.allowed(ctx, id, claims.UserID) {
		return
	}

	msgs, err := c.GroupService.Messages(id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

// swagger:model GroupUpdateRequest
type GroupUpdateRequest struct {
	Name       string `json:"name"`
	GroupImage string `json:"groupImage"`
}

// UpdateGroup godoc
// @Summary Update a group's name or image
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Param body body GroupUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Group}
// @Router /api/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	var req GroupUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.Update(id, req.Name, req.GroupImage)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// DeleteGroup godoc
// @Summary Delete a group and its messages
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	if err := c.GroupService.Delete(id); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Group deleted"})
}

// Chat godoc
// @Summary Join a group's chat room over WebSocket
// @Description Authenticate with ?token=. Messages sent as {"type":"MESSAGE","data":{"message":"..."}} are persisted and broadcast to the room.
// @Tags groups
// @Security BearerAuth
// @Param id path int true "Group id"
// @Router /api/groups/{id}/ws [get]
func (c *GroupController) Chat(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if !c.allowed(ctx, id, claims.UserID) {
		return
	}

	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID, id)
}

// allowed verifies group membership, responding on failure. Admins pass.
func (c *GroupController) allowed(ctx *gin.Context, groupID, userID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.Role == model.Admin {
		return true
	}

	member, err := c.GroupService.IsMember(groupID, userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}
	if !member {
		util.Forbidden(ctx)
		return false
	}
	return true
}

func (c *GroupController) respondError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrGroupNotFound) {
		util.NotFound(ctx, "Group not found")
		return
	}
	util.LogInternalError(ctx, err)
}
