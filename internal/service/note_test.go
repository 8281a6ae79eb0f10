package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteSaveAndOverwrite(t *testing.T) {
	svc := NewNoteService(newTestDB(t))

	action, err := svc.Save("Alpha", "2025-03-01", "first draft")
	require.NoError(t, err)
	assert.Equal(t, "saved", action)

	action, err = svc.Save("Alpha", "2025-03-01", "second draft")
	require.NoError(t, err)
	assert.Equal(t, "saved", action)

	notes, err := svc.Map("Alpha")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2025-03-01": "second draft"}, notes)
}

func TestNoteEmptyTextDeletes(t *testing.T) {
	svc := NewNoteService(newTestDB(t))

	_, err := svc.Save("Alpha", "2025-03-01", "to be removed")
	require.NoError(t, err)

	action, err := svc.Save("Alpha", "2025-03-01", "   ")
	require.NoError(t, err)
	assert.Equal(t, "deleted", action)

	notes, err := svc.Map("Alpha")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteValidation(t *testing.T) {
	svc := NewNoteService(newTestDB(t))

	_, err := svc.Save("", "2025-03-01", "text")
	assert.IsType(t, ValidationError{}, err)
}
