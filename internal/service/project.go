package service

import (
	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// List returns every known project name: explicit rows plus names surfaced
// implicitly by activities referencing a project never created.
func (s *ProjectService) List() ([]string, error) {
	var names []string
	err := s.db.Raw(
		"SELECT name FROM projects UNION SELECT DISTINCT project FROM activities ORDER BY 1",
	).Scan(&names).Error
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *ProjectService) Create(name string) (*model.Project, error) {
	if blank(name) {
		return nil, ValidationError{Msg: "project name is required"}
	}
	var count int64
	s.db.Model(&model.Project{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, ConflictError{Msg: "project already exists"}
	}
	project := &model.Project{Name: name}
	if err := s.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and every dependent row across all tables in
// one transaction. Calling it again once everything is gone is a clean
// not-found, never a partial delete.
func (s *ProjectService) Delete(name string) (int64, error) {
	var changes int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var groupIDs []uint
		if err := tx.Model(&model.Activity{}).Where("project = ?", name).
			Distinct().Pluck("requirement_group_id", &groupIDs).Error; err != nil {
			return err
		}
		var defectIDs []uint
		if err := tx.Model(&model.Defect{}).Where("project = ?", name).
			Pluck("id", &defectIDs).Error; err != nil {
			return err
		}

		if len(groupIDs) > 0 {
			if err := tx.Where("requirement_group_id IN ?", groupIDs).
				Delete(&model.DefectRequirementLink{}).Error; err != nil {
				return err
			}
		}
		if len(defectIDs) > 0 {
			if err := tx.Where("defect_id IN ?", defectIDs).
				Delete(&model.DefectRequirementLink{}).Error; err != nil {
				return err
			}
			if err := tx.Where("defect_id IN ?", defectIDs).
				Delete(&model.DefectHistory{}).Error; err != nil {
				return err
			}
		}

		for _, target := range []interface{}{
			&model.Activity{},
			&model.Note{},
			&model.RetrospectiveItem{},
			&model.Release{},
		} {
			res := tx.Where("project = ?", name).Delete(target)
			if res.Error != nil {
				return res.Error
			}
			changes += res.RowsAffected
		}

		res := tx.Where("id IN ?", defectIDs).Delete(&model.Defect{})
		if res.Error != nil {
			return res.Error
		}
		changes += res.RowsAffected

		res = tx.Where("name = ?", name).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		changes += res.RowsAffected

		if changes == 0 {
			return NotFoundError{Msg: "project not found"}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changes, nil
}
