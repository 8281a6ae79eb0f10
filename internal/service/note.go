package service

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trackboard/backend/internal/model"
)

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

// Map returns all notes of a project as a date-to-text map.
func (s *NoteService) Map(project string) (map[string]string, error) {
	var notes []model.Note
	if err := s.db.Where("project = ?", project).Find(&notes).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(notes))
	for _, n := range notes {
		out[n.Date] = n.Text
	}
	return out, nil
}

// Save upserts the (project, date) note. Empty text deletes the row; there
// are no tombstones.
func (s *NoteService) Save(project, date, text string) (string, error) {
	if blank(project) || blank(date) {
		return "", ValidationError{Msg: "project and date are required"}
	}
	if strings.TrimSpace(text) == "" {
		if err := s.db.Where("project = ? AND date = ?", project, date).
			Delete(&model.Note{}).Error; err != nil {
			return "", err
		}
		return "deleted", nil
	}

	note := model.Note{Project: project, Date: date, Text: text}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(&note).Error
	if err != nil {
		return "", err
	}
	return "saved", nil
}
