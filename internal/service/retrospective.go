package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

type RetrospectiveService struct {
	db *gorm.DB
}

func NewRetrospectiveService(db *gorm.DB) *RetrospectiveService {
	return &RetrospectiveService{db: db}
}

func (s *RetrospectiveService) List(project string) ([]model.RetrospectiveItem, error) {
	var items []model.RetrospectiveItem
	if err := s.db.Where("project = ?", project).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type RetroItemInput struct {
	Project     string
	Column      string
	Description string
	Date        string
}

func (s *RetrospectiveService) Create(in RetroItemInput) (*model.RetrospectiveItem, error) {
	if blank(in.Project) || blank(in.Description) {
		return nil, ValidationError{Msg: "project and description are required"}
	}
	if !model.ValidRetroColumn(in.Column) {
		return nil, ValidationError{Msg: "column must be one of well, wrong, improve"}
	}
	item := &model.RetrospectiveItem{
		Project:     in.Project,
		Category:    in.Column,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

type UpdateRetroItemInput struct {
	Column      *string
	Description *string
}

func (s *RetrospectiveService) Update(id uint, in UpdateRetroItemInput) (*model.RetrospectiveItem, error) {
	var item model.RetrospectiveItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Msg: "retrospective item not found"}
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Column != nil {
		if !model.ValidRetroColumn(*in.Column) {
			return nil, ValidationError{Msg: "column must be one of well, wrong, improve"}
		}
		updates["category"] = *in.Column
	}
	if in.Description != nil {
		if blank(*in.Description) {
			return nil, ValidationError{Msg: "description cannot be empty"}
		}
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return nil, ValidationError{Msg: "no fields to update"}
	}

	if err := s.db.Model(&model.RetrospectiveItem{}).Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *RetrospectiveService) Delete(id uint) (int64, error) {
	res := s.db.Delete(&model.RetrospectiveItem{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, NotFoundError{Msg: "retrospective item not found"}
	}
	return res.RowsAffected, nil
}
