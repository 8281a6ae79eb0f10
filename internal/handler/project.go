package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	names, err := h.projectService.List()
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, names)
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}
	project, err := h.projectService.Create(req.Name)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"id": project.ID, "name": project.Name})
}

// DELETE /api/projects/:name
func (h *ProjectHandler) Delete(c *gin.Context) {
	changes, err := h.projectService.Delete(c.Param("name"))
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}
