package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type RequirementHandler struct {
	reqService *service.RequirementService
}

func NewRequirementHandler(reqService *service.RequirementService) *RequirementHandler {
	return &RequirementHandler{reqService: reqService}
}

// GET /api/requirements
func (h *RequirementHandler) ListGroups(c *gin.Context) {
	groups, err := h.reqService.ListGroups()
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, groups)
}

// POST /api/activities
func (h *RequirementHandler) CreateActivity(c *gin.Context) {
	var req struct {
		Project         string `json:"project"`
		Name            string `json:"name"`
		Status          string `json:"status"`
		StatusDate      string `json:"statusDate"`
		Sprint          string `json:"sprint"`
		Comment         string `json:"comment"`
		Link            string `json:"link"`
		Type            string `json:"type"`
		Tags            string `json:"tags"`
		Key             string `json:"key"`
		ReleaseID       *uint  `json:"releaseId"`
		ExistingGroupID *uint  `json:"existingGroupId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	act, err := h.reqService.CreateActivity(service.CreateActivityInput{
		Project:         req.Project,
		Name:            req.Name,
		Status:          req.Status,
		StatusDate:      req.StatusDate,
		Sprint:          req.Sprint,
		Comment:         req.Comment,
		Link:            req.Link,
		Type:            req.Type,
		Tags:            req.Tags,
		Key:             req.Key,
		ReleaseID:       req.ReleaseID,
		ExistingGroupID: req.ExistingGroupID,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, act)
}

// PUT /api/activities/:id
func (h *RequirementHandler) PatchActivity(c *gin.Context) {
	id := parseID(c.Param("id"))

	var req struct {
		Comment    *string `json:"comment"`
		StatusDate *string `json:"statusDate"`
		Link       *string `json:"link"`
		Type       *string `json:"type"`
		Tags       *string `json:"tags"`
		ReleaseID  *uint   `json:"releaseId"`
		SetRelease bool    `json:"setRelease"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	changes, err := h.reqService.PatchActivity(id, service.PatchActivityInput{
		Comment:    req.Comment,
		StatusDate: req.StatusDate,
		Link:       req.Link,
		Type:       req.Type,
		Tags:       req.Tags,
		ReleaseID:  req.ReleaseID,
		SetRelease: req.SetRelease || req.ReleaseID != nil,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": id, "changes": changes})
}

// PUT /api/requirements/:groupId/rename
func (h *RequirementHandler) RenameGroup(c *gin.Context) {
	groupID := parseID(c.Param("groupId"))

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	changes, err := h.reqService.RenameGroup(groupID, req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}

// PUT /api/requirements/:groupId/set-release
func (h *RequirementHandler) SetGroupRelease(c *gin.Context) {
	groupID := parseID(c.Param("groupId"))

	var req struct {
		ReleaseID *uint `json:"releaseId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	changes, err := h.reqService.SetGroupRelease(groupID, req.ReleaseID)
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}

// DELETE /api/requirements/:groupId
func (h *RequirementHandler) DeleteGroup(c *gin.Context) {
	groupID := parseID(c.Param("groupId"))

	changes, err := h.reqService.DeleteGroup(groupID)
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}
