package linebuf

import (
	"errors"
	"time"
)

// Common errors for undo operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is one undo unit: the full line text plus cursor position.
type Snapshot struct {
	Text   string
	Cursor int
}

// DefaultUndoCapacity bounds the undo stack.
const DefaultUndoCapacity = 50

// DefaultGroupWindow coalesces edits arriving within this window into a
// single undo step.
const DefaultGroupWindow = 300 * time.Millisecond

// UndoStack holds bounded undo and redo snapshot stacks. Rapid
// consecutive edits are grouped: a pre-edit snapshot is pushed only when
// enough time has passed since the previous push.
type UndoStack struct {
	undo []Snapshot
	redo []Snapshot

	capacity    int
	groupWindow time.Duration
	lastPush    time.Time
	hasPushed   bool

	now func() time.Time
}

// NewUndoStack creates an undo stack with the given capacity and grouping
// window. Zero values select the defaults.
func NewUndoStack(capacity int, groupWindow time.Duration) *UndoStack {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	if groupWindow <= 0 {
		groupWindow = DefaultGroupWindow
	}
	return &UndoStack{
		capacity:    capacity,
		groupWindow: groupWindow,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (u *UndoStack) SetClock(now func() time.Time) {
	u.now = now
}

// RecordEdit is called with the pre-edit snapshot before every mutation.
// The snapshot is pushed unless it groups with the previous push; the
// redo stack is cleared either way. When capacity is exceeded the oldest
// entry is evicted.
func (u *UndoStack) RecordEdit(pre Snapshot) {
	u.redo = nil

	t := u.now()
	if u.hasPushed && t.Sub(u.lastPush) <= u.groupWindow {
		return
	}

	u.undo = append(u.undo, pre)
	if len(u.undo) > u.capacity {
		u.undo = u.undo[1:]
	}
	u.lastPush = t
	u.hasPushed = true
}

// Undo pops the undo stack, pushing the current snapshot onto the redo
// stack. Returns ErrNothingToUndo when empty. The grouping window is
// reset so the next edit starts a fresh undo step instead of coalescing
// across the undo boundary.
func (u *UndoStack) Undo(current Snapshot) (Snapshot, error) {
	if len(u.undo) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	top := u.undo[len(u.undo)-1]
	u.undo = u.undo[:len(u.undo)-1]
	u.redo = append(u.redo, current)
	u.hasPushed = false
	return top, nil
}

// Redo is the mirror of Undo. Returns ErrNothingToRedo when empty.
func (u *UndoStack) Redo(current Snapshot) (Snapshot, error) {
	if len(u.redo) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	top := u.redo[len(u.redo)-1]
	u.redo = u.redo[:len(u.redo)-1]
	u.undo = append(u.undo, current)
	u.hasPushed = false
	return top, nil
}

// CanUndo returns true if undo is available.
func (u *UndoStack) CanUndo() bool { return len(u.undo) > 0 }

// CanRedo returns true if redo is available.
func (u *UndoStack) CanRedo() bool { return len(u.redo) > 0 }

// UndoCount returns the number of undo steps available.
func (u *UndoStack) UndoCount() int { return len(u.undo) }

// RedoCount returns the number of redo steps available.
func (u *UndoStack) RedoCount() int { return len(u.redo) }

// Clear removes all undo and redo state.
func (u *UndoStack) Clear() {
	u.undo = nil
	u.redo = nil
	u.hasPushed = false
}
