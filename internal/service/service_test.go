package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
	"github.com/trackboard/backend/internal/store"
)

// newTestDB opens a throwaway SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	t.Cleanup(func() { _ = store.Close(db) })
	return db
}

// seedActivity creates a root activity and returns it.
func seedActivity(t *testing.T, svc *RequirementService, project, name, status string) *model.Activity {
	t.Helper()
	act, err := svc.CreateActivity(CreateActivityInput{
		Project:    project,
		Name:       name,
		Status:     status,
		StatusDate: "2025-03-01",
		Sprint:     "1",
	})
	require.NoError(t, err)
	return act
}

// appendActivity appends a status event to an existing group.
func appendActivity(t *testing.T, svc *RequirementService, groupID uint, project, name, status string) *model.Activity {
	t.Helper()
	act, err := svc.CreateActivity(CreateActivityInput{
		Project:         project,
		Name:            name,
		Status:          status,
		StatusDate:      "2025-03-02",
		Sprint:          "2",
		ExistingGroupID: &groupID,
	})
	require.NoError(t, err)
	return act
}

// seedDefect creates a defect with sane defaults.
func seedDefect(t *testing.T, svc *DefectService, project, title, status string, groupIDs ...uint) *model.Defect {
	t.Helper()
	defect, err := svc.CreateDefect(CreateDefectInput{
		Project:        project,
		Title:          title,
		Area:           "UI",
		Status:         status,
		CreatedDate:    "2025-03-01",
		LinkedGroupIDs: groupIDs,
	})
	require.NoError(t, err)
	return defect
}

func countCurrent(t *testing.T, db *gorm.DB, groupID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Activity{}).
		Where("requirement_group_id = ? AND is_current = ?", groupID, true).
		Count(&n).Error)
	return n
}
