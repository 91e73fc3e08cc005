// Package history implements the linear undo stack over whole-form snapshots.
package history

import (
	"errors"

	"github.com/suya12/ocr-claim-review/internal/models"
)

// ErrNothingToUndo is returned when Undo is called on an empty stack.
var ErrNothingToUndo = errors.New("nothing to undo")

// Stack is an append-only sequence of form snapshots, most recent last.
// Every field mutation pushes the pre-mutation snapshot; undo pops from the
// tail. There is no redo and no coalescing: each keystroke is its own
// snapshot, a deliberate simplicity/memory tradeoff.
type Stack struct {
	snapshots []models.FormState
}

// Push records the state as it was before a mutation.
func (s *Stack) Push(f models.FormState) {
	s.snapshots = append(s.snapshots, f)
}

// Undo removes and returns the most recent snapshot.
func (s *Stack) Undo() (models.FormState, error) {
	if len(s.snapshots) == 0 {
		return models.FormState{}, ErrNothingToUndo
	}
	last := s.snapshots[len(s.snapshots)-1]
	s.snapshots = s.snapshots[:len(s.snapshots)-1]
	return last, nil
}

// Len reports how many undo steps are available.
func (s *Stack) Len() int {
	return len(s.snapshots)
}
