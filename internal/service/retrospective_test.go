package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/backend/internal/model"
)

func TestRetroItemLifecycle(t *testing.T) {
	svc := NewRetrospectiveService(newTestDB(t))

	item, err := svc.Create(RetroItemInput{
		Project:     "Alpha",
		Column:      model.RetroColumnWrong,
		Description: "too many meetings",
		Date:        "2025-03-01",
	})
	require.NoError(t, err)

	column := model.RetroColumnImprove
	updated, err := svc.Update(item.ID, UpdateRetroItemInput{Column: &column})
	require.NoError(t, err)
	assert.Equal(t, model.RetroColumnImprove, updated.Category)

	items, err := svc.List("Alpha")
	require.NoError(t, err)
	require.Len(t, items, 1)

	changes, err := svc.Delete(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	_, err = svc.Delete(item.ID)
	assert.IsType(t, NotFoundError{}, err)
}

func TestRetroItemColumnValidation(t *testing.T) {
	svc := NewRetrospectiveService(newTestDB(t))

	_, err := svc.Create(RetroItemInput{
		Project:     "Alpha",
		Column:      "sideways",
		Description: "x",
	})
	assert.IsType(t, ValidationError{}, err)

	item, err := svc.Create(RetroItemInput{
		Project:     "Alpha",
		Column:      model.RetroColumnWell,
		Description: "x",
	})
	require.NoError(t, err)

	bad := "sideways"
	_, err = svc.Update(item.ID, UpdateRetroItemInput{Column: &bad})
	assert.IsType(t, ValidationError{}, err)

	_, err = svc.Update(item.ID, UpdateRetroItemInput{})
	assert.IsType(t, ValidationError{}, err)
}
