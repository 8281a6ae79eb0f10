package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

func currentReleases(t *testing.T, db *gorm.DB, project string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Release{}).
		Where("project = ? AND is_current = ?", project, true).
		Count(&n).Error)
	return n
}

func TestAtMostOneCurrentRelease(t *testing.T) {
	db := newTestDB(t)
	svc := NewReleaseService(db)

	r1, err := svc.Create(ReleaseInput{Project: "Alpha", Name: "R1", Date: "2025-04-01", IsCurrent: true})
	require.NoError(t, err)
	_, err = svc.Create(ReleaseInput{Project: "Alpha", Name: "R2", Date: "2025-05-01", IsCurrent: true})
	require.NoError(t, err)

	assert.Equal(t, int64(1), currentReleases(t, db, "Alpha"))

	var stale model.Release
	require.NoError(t, db.First(&stale, r1.ID).Error)
	assert.False(t, stale.IsCurrent)

	// Flipping the flag back via update clears the other one.
	yes := true
	_, err = svc.Update(r1.ID, UpdateReleaseInput{IsCurrent: &yes})
	require.NoError(t, err)
	assert.Equal(t, int64(1), currentReleases(t, db, "Alpha"))

	var back model.Release
	require.NoError(t, db.First(&back, r1.ID).Error)
	assert.True(t, back.IsCurrent)
}

func TestCurrentFlagScopedPerProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewReleaseService(db)

	_, err := svc.Create(ReleaseInput{Project: "Alpha", Name: "R1", IsCurrent: true})
	require.NoError(t, err)
	_, err = svc.Create(ReleaseInput{Project: "Beta", Name: "R1", IsCurrent: true})
	require.NoError(t, err)

	assert.Equal(t, int64(1), currentReleases(t, db, "Alpha"))
	assert.Equal(t, int64(1), currentReleases(t, db, "Beta"))
}

func TestReleaseUniquePerProject(t *testing.T) {
	svc := NewReleaseService(newTestDB(t))

	_, err := svc.Create(ReleaseInput{Project: "Alpha", Name: "R1"})
	require.NoError(t, err)

	_, err = svc.Create(ReleaseInput{Project: "Alpha", Name: "R1"})
	assert.IsType(t, ConflictError{}, err)

	// Same name on another project is fine.
	_, err = svc.Create(ReleaseInput{Project: "Beta", Name: "R1"})
	assert.NoError(t, err)
}

func TestReleaseDeleteClearsActivityReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewReleaseService(db)
	reqSvc := NewRequirementService(db)

	rel, err := svc.Create(ReleaseInput{Project: "Alpha", Name: "R1"})
	require.NoError(t, err)

	root := seedActivity(t, reqSvc, "Alpha", "Login", model.RequirementStatusToDo)
	_, err = reqSvc.SetGroupRelease(root.ID, &rel.ID)
	require.NoError(t, err)

	_, err = svc.Delete(rel.ID)
	require.NoError(t, err)

	var act model.Activity
	require.NoError(t, db.First(&act, root.ID).Error)
	assert.Nil(t, act.ReleaseID)

	_, err = svc.Delete(rel.ID)
	assert.IsType(t, NotFoundError{}, err)
}
