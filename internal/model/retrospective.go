package model

import (
	"time"
)

// Retrospective board columns.
const (
	RetroColumnWell    = "well"
	RetroColumnWrong   = "wrong"
	RetroColumnImprove = "improve"
)

var retroColumns = map[string]bool{
	RetroColumnWell:    true,
	RetroColumnWrong:   true,
	RetroColumnImprove: true,
}

func ValidRetroColumn(c string) bool { return retroColumns[c] }

// RetrospectiveItem is one card on a sprint retrospective board. The column
// lives in the category field ("column" is reserved in SQL) but keeps its
// wire name.
type RetrospectiveItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Project     string `gorm:"type:varchar(128);not null;index:idx_retro_project" json:"project"`
	Category    string `gorm:"type:varchar(10);not null;check:category IN ('well','wrong','improve')" json:"column"`
	Description string `gorm:"type:text;not null" json:"description"`
	Date        string `gorm:"type:varchar(10)" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RetrospectiveItem) TableName() string { return "retrospective_items" }
