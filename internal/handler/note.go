package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// GET /api/notes/:project
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteService.Map(c.Param("project"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, notes)
}

// POST /api/notes — empty text deletes the (project, date) row.
func (h *NoteHandler) Save(c *gin.Context) {
	var req struct {
		Project string `json:"project"`
		Date    string `json:"date"`
		Text    string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	action, err := h.noteService.Save(req.Project, req.Date, req.Text)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"action": action})
}
