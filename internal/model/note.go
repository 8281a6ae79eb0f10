package model

import (
	"time"
)

// Note is the free-text daily note of a project. One row per (project, date);
// saving an empty text deletes the row instead of keeping a tombstone.
type Note struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Project string `gorm:"type:varchar(128);not null;uniqueIndex:idx_note_project_date" json:"project"`
	Date    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_note_project_date" json:"date"`
	Text    string `gorm:"type:text;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }
