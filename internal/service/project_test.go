package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/backend/internal/model"
)

func TestProjectListIncludesImplicitProjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	reqSvc := NewRequirementService(db)

	_, err := svc.Create("Alpha")
	require.NoError(t, err)

	// Beta only exists through an activity referencing it.
	seedActivity(t, reqSvc, "Beta", "Login", model.RequirementStatusToDo)

	names, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names)
}

func TestProjectCreateConflict(t *testing.T) {
	svc := NewProjectService(newTestDB(t))

	_, err := svc.Create("Alpha")
	require.NoError(t, err)

	_, err = svc.Create("Alpha")
	assert.IsType(t, ConflictError{}, err)

	_, err = svc.Create("   ")
	assert.IsType(t, ValidationError{}, err)
}

func TestProjectDeleteCascadesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	reqSvc := NewRequirementService(db)
	defectSvc := NewDefectService(db)
	noteSvc := NewNoteService(db)
	retroSvc := NewRetrospectiveService(db)
	releaseSvc := NewReleaseService(db)

	_, err := svc.Create("Alpha")
	require.NoError(t, err)

	root := seedActivity(t, reqSvc, "Alpha", "Login", model.RequirementStatusToDo)
	seedDefect(t, defectSvc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper, root.ID)
	_, err = noteSvc.Save("Alpha", "2025-03-01", "standup notes")
	require.NoError(t, err)
	_, err = retroSvc.Create(RetroItemInput{Project: "Alpha", Column: model.RetroColumnWell, Description: "shipping"})
	require.NoError(t, err)
	_, err = releaseSvc.Create(ReleaseInput{Project: "Alpha", Name: "R1", Date: "2025-04-01"})
	require.NoError(t, err)

	changes, err := svc.Delete("Alpha")
	require.NoError(t, err)
	assert.Greater(t, changes, int64(0))

	for _, target := range []interface{}{
		&model.Activity{}, &model.Note{}, &model.RetrospectiveItem{},
		&model.Release{}, &model.Defect{},
	} {
		var count int64
		db.Model(target).Where("project = ?", "Alpha").Count(&count)
		assert.Zero(t, count)
	}
	var historyCount, linkCount, projectCount int64
	db.Model(&model.DefectHistory{}).Count(&historyCount)
	db.Model(&model.DefectRequirementLink{}).Count(&linkCount)
	db.Model(&model.Project{}).Where("name = ?", "Alpha").Count(&projectCount)
	assert.Zero(t, historyCount)
	assert.Zero(t, linkCount)
	assert.Zero(t, projectCount)

	// Second delete finds nothing left, not a partial state.
	_, err = svc.Delete("Alpha")
	assert.IsType(t, NotFoundError{}, err)
}
