package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Canonical defect status vocabulary. Legacy "Under Developer" rows are
// rewritten to "Assigned to Developer" by the startup migration.
const (
	DefectStatusAssignedToDeveloper = "Assigned to Developer"
	DefectStatusAssignedToTester    = "Assigned to Tester"
	DefectStatusToBeTested          = "To Be Tested"
	DefectStatusDone                = "Done"
	DefectStatusClosed              = "Closed"
)

var defectStatuses = map[string]bool{
	DefectStatusAssignedToDeveloper: true,
	DefectStatusAssignedToTester:    true,
	DefectStatusToBeTested:          true,
	DefectStatusDone:                true,
	DefectStatusClosed:              true,
}

func ValidDefectStatus(s string) bool { return defectStatuses[s] }

type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	return string(b), err
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	}
	return json.Unmarshal(bytes, j)
}

// Defect is a mutable bug record. Every field change is mirrored into an
// append-only DefectHistory row; the row itself is updated in place.
type Defect struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Project     string `gorm:"type:varchar(128);not null;index:idx_defect_project" json:"project"`
	Title       string `gorm:"type:varchar(256);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Area        string `gorm:"type:varchar(128)" json:"area"`
	Status      string `gorm:"type:varchar(32);not null;index:idx_defect_status" json:"status"`
	Link        string `gorm:"type:text" json:"link"`
	CreatedDate string `gorm:"type:varchar(10)" json:"createdDate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	History []DefectHistory         `gorm:"foreignKey:DefectID;constraint:OnDelete:CASCADE" json:"-"`
	Links   []DefectRequirementLink `gorm:"foreignKey:DefectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Defect) TableName() string { return "defects" }

// DefectHistory is one audit entry. Summary holds the per-field {old,new}
// diff as JSON; OldStatus/NewStatus duplicate the status transition in typed
// columns so transition counting is an equality query, not a substring match
// against the serialized blob.
type DefectHistory struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	DefectID  uint    `gorm:"not null;index:idx_history_defect" json:"defectId"`
	Summary   JSONMap `gorm:"type:json" json:"summary"`
	Comment   string  `gorm:"type:text" json:"comment"`
	OldStatus *string `gorm:"type:varchar(32)" json:"oldStatus"`
	NewStatus *string `gorm:"type:varchar(32);index:idx_history_new_status" json:"newStatus"`

	CreatedAt time.Time `json:"created_at"`
}

func (DefectHistory) TableName() string { return "defect_history" }

// DefectRequirementLink joins a defect to a requirement group. Cascades with
// its defect; requirement-group deletion clears its links explicitly inside
// the group-delete transaction.
type DefectRequirementLink struct {
	DefectID           uint `gorm:"primaryKey;autoIncrement:false" json:"defectId"`
	RequirementGroupID uint `gorm:"primaryKey;autoIncrement:false;index:idx_link_group" json:"requirementGroupId"`
}

func (DefectRequirementLink) TableName() string { return "defect_requirement_links" }
