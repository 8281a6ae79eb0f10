package model

import (
	"time"
)

// Requirement status values the UI offers. Stored free-form; the write path
// only requires a non-empty value.
const (
	RequirementStatusToDo             = "To Do"
	RequirementStatusScenariosCreated = "Scenarios created"
	RequirementStatusUnderTesting     = "Under testing"
	RequirementStatusDone             = "Done"
)

// Activity is one immutable status-change event of a requirement. All
// activities describing the same logical requirement over time share a
// RequirementGroupID; a root activity points at its own id.
type Activity struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	RequirementGroupID uint   `gorm:"index:idx_activity_group" json:"requirementGroupId"`
	Project            string `gorm:"type:varchar(128);not null;index:idx_activity_project" json:"project"`
	Name               string `gorm:"type:varchar(256);not null" json:"name"`
	Status             string `gorm:"type:varchar(64);not null" json:"status"`
	StatusDate         string `gorm:"type:varchar(10);not null" json:"statusDate"`
	Sprint             string `gorm:"type:varchar(64);not null" json:"sprint"`
	Comment            string `gorm:"type:text" json:"comment"`
	Link               string `gorm:"type:text" json:"link"`
	Type               string `gorm:"type:varchar(32)" json:"type"`
	Tags               string `gorm:"type:text" json:"tags"`
	Key                string `gorm:"type:varchar(64);index:idx_activity_key" json:"key"`
	ReleaseID          *uint  `gorm:"index:idx_activity_release" json:"releaseId"`
	IsCurrent          bool   `gorm:"not null;default:false" json:"isCurrent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Release *Release `gorm:"foreignKey:ReleaseID" json:"release,omitempty"`
}

func (Activity) TableName() string { return "activities" }
