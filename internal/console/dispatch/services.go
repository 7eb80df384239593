package dispatch

// WindowID identifies a host window. Opaque to the engine.
type WindowID string

// BufferID identifies a host buffer. Opaque to the engine.
type BufferID string

// Direction is a search direction flag.
type Direction uint8

// Search directions.
const (
	Forward Direction = iota
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Value is the outcome of an expression evaluation. Absent marks an
// evaluation that produced no value to display.
type Value struct {
	Repr   string
	Absent bool
}

// Services is the host execution contract the dispatcher drives.
// Implementations live in the host; the engine never retries a failed
// call.
type Services interface {
	// RunCommand executes an opaque command string.
	RunCommand(text string) error

	// WriteBuffer persists a buffer's contents.
	WriteBuffer(id BufferID) error

	// BufferModified reports whether a buffer has unsaved changes.
	BufferModified(id BufferID) bool

	// CloseWindow requests closure of a window, discarding unsaved
	// changes when force is set.
	CloseWindow(id WindowID, force bool) error

	// FocusWindow moves execution context to a window. May fail when the
	// window no longer exists; the dispatcher treats that as advisory.
	FocusWindow(id WindowID) error

	// SetSearchPattern registers the active search pattern and direction
	// and enables search highlighting.
	SetSearchPattern(pattern string, dir Direction) error

	// ExecuteSearch runs the active search in the given direction.
	ExecuteSearch(dir Direction) error

	// Evaluate evaluates text as an expression. Returns ErrNotExpression
	// (possibly wrapped) when the text does not parse as one.
	Evaluate(text string) (Value, error)

	// EvaluateBlock evaluates text as a full statement block.
	EvaluateBlock(text string) (Value, error)
}
