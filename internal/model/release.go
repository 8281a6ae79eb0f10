package model

import (
	"time"
)

// Release is a named, dated milestone of a project. At most one release per
// project carries IsCurrent; the release service enforces that inside the
// same transaction that sets the flag.
type Release struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Project   string `gorm:"type:varchar(128);not null;uniqueIndex:idx_release_project_name" json:"project"`
	Name      string `gorm:"type:varchar(128);not null;uniqueIndex:idx_release_project_name" json:"name"`
	Date      string `gorm:"type:varchar(10)" json:"date"`
	IsCurrent bool   `gorm:"not null;default:false" json:"isCurrent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Release) TableName() string { return "releases" }
