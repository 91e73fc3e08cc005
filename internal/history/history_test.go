package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suya12/ocr-claim-review/internal/models"
)

func TestStack_PushUndo(t *testing.T) {
	var s Stack
	assert.Equal(t, 0, s.Len())

	s.Push(models.FormState{InsuredName: "X"})
	s.Push(models.FormState{InsuredName: "Y"})
	assert.Equal(t, 2, s.Len())

	got, err := s.Undo()
	assert.NoError(t, err)
	assert.Equal(t, "Y", got.InsuredName)

	got, err = s.Undo()
	assert.NoError(t, err)
	assert.Equal(t, "X", got.InsuredName)
	assert.Equal(t, 0, s.Len())
}

func TestStack_UndoEmpty(t *testing.T) {
	var s Stack
	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}
