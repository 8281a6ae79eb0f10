package service

import (
	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

// RequirementService maintains the activity log behind every requirement: an
// append-only sequence of status events sharing a group id, collapsed into a
// single current entry per group.
type RequirementService struct {
	db *gorm.DB
}

func NewRequirementService(db *gorm.DB) *RequirementService {
	return &RequirementService{db: db}
}

type CreateActivityInput struct {
	Project         string
	Name            string
	Status          string
	StatusDate      string
	Sprint          string
	Comment         string
	Link            string
	Type            string
	Tags            string
	Key             string
	ReleaseID       *uint
	ExistingGroupID *uint
}

// CreateActivity appends one status event. With ExistingGroupID the event
// joins that group and every other member loses its current flag; without
// it the new row becomes the root of a fresh group (group id = own id).
// Insert, self-group assignment and sibling demotion run in one transaction
// so the single-current invariant holds under concurrent writers.
func (s *RequirementService) CreateActivity(in CreateActivityInput) (*model.Activity, error) {
	if blank(in.Project) || blank(in.Name) || blank(in.Status) || blank(in.StatusDate) || blank(in.Sprint) {
		return nil, ValidationError{Msg: "project, name, status, date and sprint are required"}
	}

	act := &model.Activity{
		Project:    in.Project,
		Name:       in.Name,
		Status:     in.Status,
		StatusDate: in.StatusDate,
		Sprint:     in.Sprint,
		Comment:    in.Comment,
		Link:       in.Link,
		Type:       in.Type,
		Tags:       in.Tags,
		Key:        in.Key,
		ReleaseID:  in.ReleaseID,
		IsCurrent:  true,
	}
	if in.ExistingGroupID != nil {
		act.RequirementGroupID = *in.ExistingGroupID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(act).Error; err != nil {
			return err
		}
		if act.RequirementGroupID == 0 {
			act.RequirementGroupID = act.ID
			if err := tx.Model(&model.Activity{}).Where("id = ?", act.ID).
				Update("requirement_group_id", act.ID).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Activity{}).
			Where("requirement_group_id = ? AND id <> ?", act.RequirementGroupID, act.ID).
			Update("is_current", false).Error
	})
	if err != nil {
		return nil, err
	}
	return act, nil
}

type PatchActivityInput struct {
	Comment    *string
	StatusDate *string
	Link       *string
	Type       *string
	Tags       *string
	ReleaseID  *uint
	SetRelease bool
}

// PatchActivity updates non-status fields of one activity in place. It never
// touches the current flag and never creates a history event.
func (s *RequirementService) PatchActivity(id uint, in PatchActivityInput) (int64, error) {
	updates := make(map[string]interface{})
	if in.Comment != nil {
		updates["comment"] = *in.Comment
	}
	if in.StatusDate != nil {
		updates["status_date"] = *in.StatusDate
	}
	if in.Link != nil {
		updates["link"] = *in.Link
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Tags != nil {
		updates["tags"] = *in.Tags
	}
	if in.SetRelease {
		updates["release_id"] = in.ReleaseID
	}
	if len(updates) == 0 {
		return 0, ValidationError{Msg: "no fields to update"}
	}

	var count int64
	s.db.Model(&model.Activity{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return 0, NotFoundError{Msg: "activity not found"}
	}

	res := s.db.Model(&model.Activity{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RenameGroup rewrites the user-facing name on every activity of the group,
// so history retroactively shows the new name. Existence is checked first:
// renaming an existing group to its current name is a no-op, not a 404.
func (s *RequirementService) RenameGroup(groupID uint, newName string) (int64, error) {
	if blank(newName) {
		return 0, ValidationError{Msg: "name is required"}
	}
	if !s.groupExists(groupID) {
		return 0, NotFoundError{Msg: "requirement group not found"}
	}
	res := s.db.Model(&model.Activity{}).
		Where("requirement_group_id = ?", groupID).
		Update("name", newName)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// SetGroupRelease points every activity of the group at a release (or clears
// the reference with nil).
func (s *RequirementService) SetGroupRelease(groupID uint, releaseID *uint) (int64, error) {
	if !s.groupExists(groupID) {
		return 0, NotFoundError{Msg: "requirement group not found"}
	}
	res := s.db.Model(&model.Activity{}).
		Where("requirement_group_id = ?", groupID).
		Update("release_id", releaseID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteGroup removes the whole group and any defect links pointing at it,
// links first, inside one transaction. A group with zero links is fine; a
// group with zero activities is a 404.
func (s *RequirementService) DeleteGroup(groupID uint) (int64, error) {
	var changes int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requirement_group_id = ?", groupID).
			Delete(&model.DefectRequirementLink{}).Error; err != nil {
			return err
		}
		res := tx.Where("requirement_group_id = ?", groupID).Delete(&model.Activity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFoundError{Msg: "requirement group not found"}
		}
		changes = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changes, nil
}

// LinkedDefect is the non-closed defect summary attached to a group listing.
type LinkedDefect struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// RequirementGroup is the derived view of one logical requirement: its full
// history (newest first), the entry flagged current and the open defects
// linked to it.
type RequirementGroup struct {
	ID                   uint             `json:"id"`
	Project              string           `json:"project"`
	Name                 string           `json:"name"`
	History              []model.Activity `json:"history"`
	CurrentStatusDetails *model.Activity  `json:"currentStatusDetails"`
	LinkedDefects        []LinkedDefect   `json:"linkedDefects"`
}

// ListGroups reads every activity with its release and groups them by
// requirement group id. Read-only.
func (s *RequirementService) ListGroups() ([]RequirementGroup, error) {
	var acts []model.Activity
	if err := s.db.Preload("Release").
		Order("created_at DESC, id DESC").
		Find(&acts).Error; err != nil {
		return nil, err
	}

	type linkRow struct {
		RequirementGroupID uint
		DefectID           uint
		Title              string
		Status             string
	}
	var links []linkRow
	if err := s.db.Table("defect_requirement_links").
		Select("defect_requirement_links.requirement_group_id, defects.id AS defect_id, defects.title, defects.status").
		Joins("JOIN defects ON defects.id = defect_requirement_links.defect_id").
		Where("defects.status <> ?", model.DefectStatusClosed).
		Scan(&links).Error; err != nil {
		return nil, err
	}
	linksByGroup := make(map[uint][]LinkedDefect)
	for _, l := range links {
		linksByGroup[l.RequirementGroupID] = append(linksByGroup[l.RequirementGroupID], LinkedDefect{
			ID:     l.DefectID,
			Title:  l.Title,
			Status: l.Status,
		})
	}

	byGroup := make(map[uint]*RequirementGroup)
	var order []uint
	for i := range acts {
		a := acts[i]
		g, ok := byGroup[a.RequirementGroupID]
		if !ok {
			g = &RequirementGroup{
				ID:            a.RequirementGroupID,
				Project:       a.Project,
				Name:          a.Name,
				LinkedDefects: linksByGroup[a.RequirementGroupID],
			}
			byGroup[a.RequirementGroupID] = g
			order = append(order, a.RequirementGroupID)
		}
		g.History = append(g.History, a)
	}

	groups := make([]RequirementGroup, 0, len(order))
	for _, id := range order {
		g := byGroup[id]
		for i := range g.History {
			if g.History[i].IsCurrent {
				g.CurrentStatusDetails = &g.History[i]
				break
			}
		}
		if g.CurrentStatusDetails == nil && len(g.History) > 0 {
			g.CurrentStatusDetails = &g.History[0]
		}
		groups = append(groups, *g)
	}
	return groups, nil
}

func (s *RequirementService) groupExists(groupID uint) bool {
	var count int64
	s.db.Model(&model.Activity{}).Where("requirement_group_id = ?", groupID).Count(&count)
	return count > 0
}
