package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type ReleaseHandler struct {
	releaseService *service.ReleaseService
}

func NewReleaseHandler(releaseService *service.ReleaseService) *ReleaseHandler {
	return &ReleaseHandler{releaseService: releaseService}
}

// GET /api/releases/:project
func (h *ReleaseHandler) List(c *gin.Context) {
	releases, err := h.releaseService.List(c.Param("project"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, releases)
}

// POST /api/releases
func (h *ReleaseHandler) Create(c *gin.Context) {
	var req struct {
		Project   string `json:"project"`
		Name      string `json:"name"`
		Date      string `json:"date"`
		IsCurrent bool   `json:"isCurrent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	release, err := h.releaseService.Create(service.ReleaseInput{
		Project:   req.Project,
		Name:      req.Name,
		Date:      req.Date,
		IsCurrent: req.IsCurrent,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, release)
}

// PUT /api/releases/:id
func (h *ReleaseHandler) Update(c *gin.Context) {
	var req struct {
		Name      *string `json:"name"`
		Date      *string `json:"date"`
		IsCurrent *bool   `json:"isCurrent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	release, err := h.releaseService.Update(parseID(c.Param("id")), service.UpdateReleaseInput{
		Name:      req.Name,
		Date:      req.Date,
		IsCurrent: req.IsCurrent,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, release)
}

// DELETE /api/releases/:id
func (h *ReleaseHandler) Delete(c *gin.Context) {
	changes, err := h.releaseService.Delete(parseID(c.Param("id")))
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}
