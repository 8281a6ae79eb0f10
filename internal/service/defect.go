package service

import (
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

// DefectService owns the defect row, its append-only audit trail and its
// links to requirement groups.
type DefectService struct {
	db *gorm.DB
}

func NewDefectService(db *gorm.DB) *DefectService {
	return &DefectService{db: db}
}

type CreateDefectInput struct {
	Project        string
	Title          string
	Description    string
	Area           string
	Status         string
	Link           string
	CreatedDate    string
	Comment        string
	LinkedGroupIDs []uint
}

// CreateDefect inserts the defect, its requirement links and one creation
// history row in a single transaction. Link inserts are best-effort: a bad
// group id is logged and skipped without sinking the defect.
func (s *DefectService) CreateDefect(in CreateDefectInput) (*model.Defect, error) {
	if blank(in.Project) || blank(in.Title) || blank(in.Area) || blank(in.Status) || blank(in.CreatedDate) {
		return nil, ValidationError{Msg: "project, title, area, status and date are required"}
	}
	if !model.ValidDefectStatus(in.Status) {
		return nil, ValidationError{Msg: "unknown defect status: " + in.Status}
	}

	defect := &model.Defect{
		Project:     in.Project,
		Title:       in.Title,
		Description: in.Description,
		Area:        in.Area,
		Status:      in.Status,
		Link:        in.Link,
		CreatedDate: in.CreatedDate,
	}

	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		comment = "Defect created."
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(defect).Error; err != nil {
			return err
		}
		for _, gid := range in.LinkedGroupIDs {
			link := model.DefectRequirementLink{DefectID: defect.ID, RequirementGroupID: gid}
			if err := tx.Create(&link).Error; err != nil {
				slog.Warn("defect link insert failed", "defect", defect.ID, "group", gid, "error", err)
			}
		}
		status := defect.Status
		history := model.DefectHistory{
			DefectID: defect.ID,
			Summary: model.JSONMap{
				"status": map[string]interface{}{"old": nil, "new": defect.Status},
				"title":  map[string]interface{}{"old": nil, "new": defect.Title},
				"area":   map[string]interface{}{"old": nil, "new": defect.Area},
			},
			Comment:   comment,
			NewStatus: &status,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return defect, nil
}

type UpdateDefectInput struct {
	Title          *string
	Description    *string
	Area           *string
	Status         *string
	Link           *string
	CreatedDate    *string
	Comment        string
	LinkedGroupIDs []uint
}

// UpdateDefect applies field changes, replaces the full link set and appends
// one history row when anything actually changed (or a comment was left).
// Field values equal to the stored ones after trimming produce no diff and
// no column update.
func (s *DefectService) UpdateDefect(id uint, in UpdateDefectInput) (*model.Defect, error) {
	var defect model.Defect
	if err := s.db.First(&defect, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Msg: "defect not found"}
		}
		return nil, err
	}

	if in.Status != nil && !model.ValidDefectStatus(strings.TrimSpace(*in.Status)) {
		return nil, ValidationError{Msg: "unknown defect status: " + *in.Status}
	}

	summary := model.JSONMap{}
	updates := make(map[string]interface{})
	diff := func(field, old string, next *string) {
		if next == nil {
			return
		}
		trimmed := strings.TrimSpace(*next)
		if valuesEqual(old, trimmed) {
			return
		}
		summary[field] = map[string]interface{}{"old": old, "new": trimmed}
		updates[field] = trimmed
	}
	diff("title", defect.Title, in.Title)
	diff("description", defect.Description, in.Description)
	diff("area", defect.Area, in.Area)
	diff("status", defect.Status, in.Status)
	diff("link", defect.Link, in.Link)
	diff("created_date", defect.CreatedDate, in.CreatedDate)

	comment := strings.TrimSpace(in.Comment)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("defect_id = ?", id).
			Delete(&model.DefectRequirementLink{}).Error; err != nil {
			return err
		}
		for _, gid := range in.LinkedGroupIDs {
			link := model.DefectRequirementLink{DefectID: id, RequirementGroupID: gid}
			if err := tx.Create(&link).Error; err != nil {
				slog.Warn("defect link insert failed", "defect", id, "group", gid, "error", err)
			}
		}

		if len(summary) > 0 || comment != "" {
			history := model.DefectHistory{DefectID: id, Comment: comment}
			if len(summary) > 0 {
				history.Summary = summary
			}
			if change, ok := summary["status"]; ok {
				pair := change.(map[string]interface{})
				old := pair["old"].(string)
				next := pair["new"].(string)
				history.OldStatus = &old
				history.NewStatus = &next
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&model.Defect{}).Where("id = ?", id).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&defect, id).Error; err != nil {
		return nil, err
	}
	return &defect, nil
}

// DeleteDefect removes the defect with its history and links in one
// transaction.
func (s *DefectService) DeleteDefect(id uint) (int64, error) {
	var changes int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("defect_id = ?", id).Delete(&model.DefectHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("defect_id = ?", id).Delete(&model.DefectRequirementLink{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Defect{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFoundError{Msg: "defect not found"}
		}
		changes = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changes, nil
}

// LinkedRequirement is the display view of a requirement group linked to a
// defect, taken from the group's current activity.
type LinkedRequirement struct {
	RequirementGroupID uint   `json:"requirementGroupId"`
	Name               string `json:"name"`
	Sprint             string `json:"sprint"`
}

type DefectWithLinks struct {
	model.Defect
	LinkedRequirements []LinkedRequirement `json:"linkedRequirements"`
}

// ListDefects returns defects for one project (or all with an empty
// project), split by the active/closed filter, each carrying the linked
// requirement display data resolved through the group's current activity.
func (s *DefectService) ListDefects(project, statusFilter string) ([]DefectWithLinks, error) {
	query := s.db.Model(&model.Defect{})
	if project != "" {
		query = query.Where("project = ?", project)
	}
	switch statusFilter {
	case "closed":
		query = query.Where("status = ?", model.DefectStatusClosed)
	default:
		query = query.Where("status <> ?", model.DefectStatusClosed)
	}

	var defects []model.Defect
	if err := query.Order("created_at DESC, id DESC").Find(&defects).Error; err != nil {
		return nil, err
	}
	if len(defects) == 0 {
		return []DefectWithLinks{}, nil
	}

	ids := make([]uint, 0, len(defects))
	for _, d := range defects {
		ids = append(ids, d.ID)
	}

	type linkRow struct {
		DefectID           uint
		RequirementGroupID uint
		Name               string
		Sprint             string
	}
	linkQuery := s.db.Table("defect_requirement_links").
		Select("defect_requirement_links.defect_id, defect_requirement_links.requirement_group_id, activities.name, activities.sprint").
		Joins("JOIN activities ON activities.requirement_group_id = defect_requirement_links.requirement_group_id AND activities.is_current = ?", true).
		Where("defect_requirement_links.defect_id IN ?", ids)
	if project != "" {
		linkQuery = linkQuery.Where("activities.project = ?", project)
	}
	var links []linkRow
	if err := linkQuery.Scan(&links).Error; err != nil {
		return nil, err
	}
	byDefect := make(map[uint][]LinkedRequirement)
	for _, l := range links {
		byDefect[l.DefectID] = append(byDefect[l.DefectID], LinkedRequirement{
			RequirementGroupID: l.RequirementGroupID,
			Name:               l.Name,
			Sprint:             l.Sprint,
		})
	}

	out := make([]DefectWithLinks, 0, len(defects))
	for _, d := range defects {
		out = append(out, DefectWithLinks{Defect: d, LinkedRequirements: byDefect[d.ID]})
	}
	return out, nil
}

// History returns the audit trail of one defect, newest first.
func (s *DefectService) History(defectID uint) ([]model.DefectHistory, error) {
	var count int64
	s.db.Model(&model.Defect{}).Where("id = ?", defectID).Count(&count)
	if count == 0 {
		return nil, NotFoundError{Msg: "defect not found"}
	}
	var rows []model.DefectHistory
	if err := s.db.Where("defect_id = ?", defectID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type ReturnCount struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ReturnCount int64  `json:"return_count"`
}

// ReturnToDeveloperCounts counts, per defect, the audit entries showing a
// status reverting to the developer-assigned state. The typed status columns
// make this an equality query; creation rows (null old status) never count.
func (s *DefectService) ReturnToDeveloperCounts(project, statusFilter string) ([]ReturnCount, error) {
	query := s.db.Table("defects").
		Select("defects.id, defects.title, COUNT(defect_history.id) AS return_count").
		Joins("JOIN defect_history ON defect_history.defect_id = defects.id").
		Where("defects.project = ?", project).
		Where("defect_history.new_status = ?", model.DefectStatusAssignedToDeveloper).
		Where("defect_history.old_status IS NOT NULL").
		Where("defect_history.old_status <> defect_history.new_status")
	switch statusFilter {
	case "closed":
		query = query.Where("defects.status = ?", model.DefectStatusClosed)
	default:
		query = query.Where("defects.status <> ?", model.DefectStatusClosed)
	}

	var counts []ReturnCount
	if err := query.Group("defects.id").
		Having("COUNT(defect_history.id) > 0").
		Order("return_count DESC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
