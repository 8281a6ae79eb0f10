package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

type ReleaseService struct {
	db *gorm.DB
}

func NewReleaseService(db *gorm.DB) *ReleaseService {
	return &ReleaseService{db: db}
}

func (s *ReleaseService) List(project string) ([]model.Release, error) {
	var releases []model.Release
	if err := s.db.Where("project = ?", project).
		Order("date DESC, id DESC").
		Find(&releases).Error; err != nil {
		return nil, err
	}
	return releases, nil
}

type ReleaseInput struct {
	Project   string
	Name      string
	Date      string
	IsCurrent bool
}

// Create inserts a release; when it is flagged current, the flag on every
// other release of the project is cleared in the same transaction so at
// most one stays current.
func (s *ReleaseService) Create(in ReleaseInput) (*model.Release, error) {
	if blank(in.Project) || blank(in.Name) {
		return nil, ValidationError{Msg: "project and name are required"}
	}
	var count int64
	s.db.Model(&model.Release{}).
		Where("project = ? AND name = ?", in.Project, in.Name).Count(&count)
	if count > 0 {
		return nil, ConflictError{Msg: "release already exists for this project"}
	}

	release := &model.Release{
		Project:   in.Project,
		Name:      in.Name,
		Date:      in.Date,
		IsCurrent: in.IsCurrent,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsCurrent {
			if err := tx.Model(&model.Release{}).
				Where("project = ?", in.Project).
				Update("is_current", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(release).Error
	})
	if err != nil {
		return nil, err
	}
	return release, nil
}

type UpdateReleaseInput struct {
	Name      *string
	Date      *string
	IsCurrent *bool
}

func (s *ReleaseService) Update(id uint, in UpdateReleaseInput) (*model.Release, error) {
	var release model.Release
	if err := s.db.First(&release, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Msg: "release not found"}
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		if blank(*in.Name) {
			return nil, ValidationError{Msg: "name cannot be empty"}
		}
		var count int64
		s.db.Model(&model.Release{}).
			Where("project = ? AND name = ? AND id <> ?", release.Project, *in.Name, id).
			Count(&count)
		if count > 0 {
			return nil, ConflictError{Msg: "release already exists for this project"}
		}
		updates["name"] = *in.Name
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.IsCurrent != nil {
		updates["is_current"] = *in.IsCurrent
	}
	if len(updates) == 0 {
		return nil, ValidationError{Msg: "no fields to update"}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsCurrent != nil && *in.IsCurrent {
			if err := tx.Model(&model.Release{}).
				Where("project = ? AND id <> ?", release.Project, id).
				Update("is_current", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Release{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&release, id).Error; err != nil {
		return nil, err
	}
	return &release, nil
}

// Delete removes the release and clears any activity references to it in
// the same transaction.
func (s *ReleaseService) Delete(id uint) (int64, error) {
	var changes int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Activity{}).
			Where("release_id = ?", id).
			Update("release_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Release{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFoundError{Msg: "release not found"}
		}
		changes = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changes, nil
}
