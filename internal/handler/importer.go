package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type ImportHandler struct {
	importService *service.ImportService
}

func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

type importRequest struct {
	Project   string              `json:"project"`
	Sprint    string              `json:"sprint"`
	Date      string              `json:"date"`
	ReleaseID *uint               `json:"releaseId"`
	Rows      []service.ImportRow `json:"rows"`
}

// POST /api/import/validate
func (h *ImportHandler) ValidateRequirements(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	counts, err := h.importService.ValidateRequirements(req.Project, req.Rows)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, counts)
}

// POST /api/import/requirements
func (h *ImportHandler) ExecuteRequirements(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	result, err := h.importService.ExecuteRequirements(service.ImportTarget{
		Project:   req.Project,
		Sprint:    req.Sprint,
		Date:      req.Date,
		ReleaseID: req.ReleaseID,
	}, req.Rows)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}

// POST /api/import/defects/validate
func (h *ImportHandler) ValidateDefects(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	counts, err := h.importService.ValidateDefects(req.Project, req.Rows)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, counts)
}

// POST /api/import/defects
func (h *ImportHandler) ExecuteDefects(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	result, err := h.importService.ExecuteDefects(service.ImportTarget{
		Project: req.Project,
		Date:    req.Date,
	}, req.Rows)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}
