package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type RetrospectiveHandler struct {
	retroService *service.RetrospectiveService
}

func NewRetrospectiveHandler(retroService *service.RetrospectiveService) *RetrospectiveHandler {
	return &RetrospectiveHandler{retroService: retroService}
}

// GET /api/retrospective/:project
func (h *RetrospectiveHandler) List(c *gin.Context) {
	items, err := h.retroService.List(c.Param("project"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, items)
}

// POST /api/retrospective
func (h *RetrospectiveHandler) Create(c *gin.Context) {
	var req struct {
		Project     string `json:"project"`
		Column      string `json:"column"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.retroService.Create(service.RetroItemInput{
		Project:     req.Project,
		Column:      req.Column,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}

// PUT /api/retrospective/:id
func (h *RetrospectiveHandler) Update(c *gin.Context) {
	var req struct {
		Column      *string `json:"column"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.retroService.Update(parseID(c.Param("id")), service.UpdateRetroItemInput{
		Column:      req.Column,
		Description: req.Description,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}

// DELETE /api/retrospective/:id
func (h *RetrospectiveHandler) Delete(c *gin.Context) {
	changes, err := h.retroService.Delete(parseID(c.Param("id")))
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}
