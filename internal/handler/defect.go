package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type DefectHandler struct {
	defectService *service.DefectService
}

func NewDefectHandler(defectService *service.DefectService) *DefectHandler {
	return &DefectHandler{defectService: defectService}
}

// GET /api/defects/all
func (h *DefectHandler) ListAll(c *gin.Context) {
	defects, err := h.defectService.ListDefects("", c.DefaultQuery("filter", "active"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, defects)
}

// GET /api/defects/:id — the segment is a project name here.
func (h *DefectHandler) ListByProject(c *gin.Context) {
	defects, err := h.defectService.ListDefects(c.Param("id"), c.DefaultQuery("filter", "active"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, defects)
}

// GET /api/defects/:id/return-counts — the segment is a project name here.
func (h *DefectHandler) ReturnCounts(c *gin.Context) {
	counts, err := h.defectService.ReturnToDeveloperCounts(c.Param("id"), c.DefaultQuery("filter", "active"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, counts)
}

// GET /api/defects/:id/history
func (h *DefectHandler) History(c *gin.Context) {
	rows, err := h.defectService.History(parseID(c.Param("id")))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rows)
}

// POST /api/defects
func (h *DefectHandler) Create(c *gin.Context) {
	var req struct {
		Project        string `json:"project"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		Area           string `json:"area"`
		Status         string `json:"status"`
		Link           string `json:"link"`
		CreatedDate    string `json:"createdDate"`
		Comment        string `json:"comment"`
		LinkedGroupIDs []uint `json:"linkedGroupIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	defect, err := h.defectService.CreateDefect(service.CreateDefectInput{
		Project:        req.Project,
		Title:          req.Title,
		Description:    req.Description,
		Area:           req.Area,
		Status:         req.Status,
		Link:           req.Link,
		CreatedDate:    req.CreatedDate,
		Comment:        req.Comment,
		LinkedGroupIDs: req.LinkedGroupIDs,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, defect)
}

// PUT /api/defects/:id
func (h *DefectHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))

	var req struct {
		Title          *string `json:"title"`
		Description    *string `json:"description"`
		Area           *string `json:"area"`
		Status         *string `json:"status"`
		Link           *string `json:"link"`
		CreatedDate    *string `json:"createdDate"`
		Comment        string  `json:"comment"`
		LinkedGroupIDs []uint  `json:"linkedGroupIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	defect, err := h.defectService.UpdateDefect(id, service.UpdateDefectInput{
		Title:          req.Title,
		Description:    req.Description,
		Area:           req.Area,
		Status:         req.Status,
		Link:           req.Link,
		CreatedDate:    req.CreatedDate,
		Comment:        req.Comment,
		LinkedGroupIDs: req.LinkedGroupIDs,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, defect)
}

// DELETE /api/defects/:id
func (h *DefectHandler) Delete(c *gin.Context) {
	changes, err := h.defectService.DeleteDefect(parseID(c.Param("id")))
	if err != nil {
		Fail(c, err)
		return
	}
	Changes(c, changes)
}
