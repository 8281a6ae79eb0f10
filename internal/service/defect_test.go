package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/backend/internal/model"
)

func TestCreateDefectWritesCreationHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewDefectService(db)

	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper)

	rows, err := svc.History(defect.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	entry := rows[0]
	assert.Equal(t, "Defect created.", entry.Comment)
	assert.Nil(t, entry.OldStatus)
	require.NotNil(t, entry.NewStatus)
	assert.Equal(t, model.DefectStatusAssignedToDeveloper, *entry.NewStatus)

	require.Contains(t, entry.Summary, "status")
	require.Contains(t, entry.Summary, "title")
	require.Contains(t, entry.Summary, "area")
	statusDiff := entry.Summary["status"].(map[string]interface{})
	assert.Nil(t, statusDiff["old"])
	assert.Equal(t, model.DefectStatusAssignedToDeveloper, statusDiff["new"])
}

func TestCreateDefectValidation(t *testing.T) {
	svc := NewDefectService(newTestDB(t))

	_, err := svc.CreateDefect(CreateDefectInput{Project: "Alpha", Title: "x"})
	assert.IsType(t, ValidationError{}, err)

	_, err = svc.CreateDefect(CreateDefectInput{
		Project:     "Alpha",
		Title:       "x",
		Area:        "UI",
		Status:      "Banana",
		CreatedDate: "2025-03-01",
	})
	assert.IsType(t, ValidationError{}, err)
}

func TestUpdateDefectNoOpWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewDefectService(db)

	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper)

	title := defect.Title
	area := "  UI  " // trims to the stored value
	status := defect.Status
	_, err := svc.UpdateDefect(defect.ID, UpdateDefectInput{
		Title:  &title,
		Area:   &area,
		Status: &status,
	})
	require.NoError(t, err)

	rows, err := svc.History(defect.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1) // creation row only
}

func TestUpdateDefectStatusOnlyDiff(t *testing.T) {
	db := newTestDB(t)
	svc := NewDefectService(db)

	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper)

	status := model.DefectStatusAssignedToTester
	updated, err := svc.UpdateDefect(defect.ID, UpdateDefectInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.DefectStatusAssignedToTester, updated.Status)

	rows, err := svc.History(defect.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	entry := rows[0] // newest first
	require.Len(t, entry.Summary, 1)
	diff := entry.Summary["status"].(map[string]interface{})
	assert.Equal(t, model.DefectStatusAssignedToDeveloper, diff["old"])
	assert.Equal(t, model.DefectStatusAssignedToTester, diff["new"])
	require.NotNil(t, entry.OldStatus)
	require.NotNil(t, entry.NewStatus)
}

func TestUpdateDefectCommentOnlyHasNullSummary(t *testing.T) {
	svc := NewDefectService(newTestDB(t))

	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper)

	_, err := svc.UpdateDefect(defect.ID, UpdateDefectInput{Comment: "still reproducible"})
	require.NoError(t, err)

	rows, err := svc.History(defect.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Summary)
	assert.Equal(t, "still reproducible", rows[0].Comment)
}

func TestUpdateDefectNotFound(t *testing.T) {
	svc := NewDefectService(newTestDB(t))

	title := "x"
	_, err := svc.UpdateDefect(999, UpdateDefectInput{Title: &title})
	assert.IsType(t, NotFoundError{}, err)
}

func TestReturnToDeveloperCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewDefectService(db)

	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper)

	tester := model.DefectStatusAssignedToTester
	_, err := svc.UpdateDefect(defect.ID, UpdateDefectInput{Status: &tester})
	require.NoError(t, err)

	// Creation at developer status must not count yet.
	counts, err := svc.ReturnToDeveloperCounts("Alpha", "active")
	require.NoError(t, err)
	assert.Empty(t, counts)

	developer := model.DefectStatusAssignedToDeveloper
	_, err = svc.UpdateDefect(defect.ID, UpdateDefectInput{Status: &developer})
	require.NoError(t, err)

	counts, err = svc.ReturnToDeveloperCounts("Alpha", "active")
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "Crash on save", counts[0].Title)
	assert.Equal(t, int64(1), counts[0].ReturnCount)
}

func TestDeleteDefectCascades(t *testing.T) {
	db := newTestDB(t)
	reqSvc := NewRequirementService(db)
	svc := NewDefectService(db)

	root := seedActivity(t, reqSvc, "Alpha", "Login", model.RequirementStatusToDo)
	defect := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper, root.ID)

	changes, err := svc.DeleteDefect(defect.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	var historyCount, linkCount int64
	db.Model(&model.DefectHistory{}).Where("defect_id = ?", defect.ID).Count(&historyCount)
	db.Model(&model.DefectRequirementLink{}).Where("defect_id = ?", defect.ID).Count(&linkCount)
	assert.Zero(t, historyCount)
	assert.Zero(t, linkCount)

	_, err = svc.DeleteDefect(defect.ID)
	assert.IsType(t, NotFoundError{}, err)
}

func TestListDefectsSplitsActiveAndClosed(t *testing.T) {
	db := newTestDB(t)
	reqSvc := NewRequirementService(db)
	svc := NewDefectService(db)

	root := seedActivity(t, reqSvc, "Alpha", "Login", model.RequirementStatusToDo)
	open := seedDefect(t, svc, "Alpha", "Crash on save", model.DefectStatusAssignedToDeveloper, root.ID)
	closed := seedDefect(t, svc, "Alpha", "Fixed long ago", model.DefectStatusDone)

	status := model.DefectStatusClosed
	_, err := svc.UpdateDefect(closed.ID, UpdateDefectInput{Status: &status})
	require.NoError(t, err)

	active, err := svc.ListDefects("Alpha", "active")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)
	require.Len(t, active[0].LinkedRequirements, 1)
	assert.Equal(t, "Login", active[0].LinkedRequirements[0].Name)
	assert.Equal(t, "1", active[0].LinkedRequirements[0].Sprint)

	closedList, err := svc.ListDefects("Alpha", "closed")
	require.NoError(t, err)
	require.Len(t, closedList, 1)
	assert.Equal(t, closed.ID, closedList[0].ID)

	all, err := svc.ListDefects("", "active")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHistoryNotFound(t *testing.T) {
	svc := NewDefectService(newTestDB(t))

	_, err := svc.History(42)
	assert.IsType(t, NotFoundError{}, err)
}
