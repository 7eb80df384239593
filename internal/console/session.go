// Package console wires the line buffer, completion engine, and command
// dispatcher into a session controller the host's input loop drives.
package console

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cmdcon/internal/console/complete"
	"github.com/dshills/cmdcon/internal/console/dispatch"
	"github.com/dshills/cmdcon/internal/console/history"
	"github.com/dshills/cmdcon/internal/console/linebuf"
	"github.com/dshills/cmdcon/internal/console/mode"
)

// Session is one open instance of the console, from Open to Close. Its
// mode is fixed at creation. The generation counter advances on every
// text change and on close; async completion results carry the
// generation they were computed against and are discarded on mismatch.
type Session struct {
	ID     uuid.UUID
	Mode   mode.Mode
	Origin dispatch.Origin

	buf  *linebuf.Buffer
	undo *linebuf.UndoStack
	nav  *linebuf.Navigator

	completions []complete.Item
	dropped     int
	selected    int // 0 = none, else 1..len(completions)

	generation uint64
}

func newSession(m mode.Mode, origin dispatch.Origin, store history.Store, undoCapacity int, groupWindow time.Duration) *Session {
	return &Session{
		ID:     uuid.New(),
		Mode:   m,
		Origin: origin,
		buf:    linebuf.New(),
		undo:   linebuf.NewUndoStack(undoCapacity, groupWindow),
		nav:    linebuf.NewNavigator(store, familyFor(m)),
	}
}

// familyFor maps a mode to its history namespace. Both search
// directions share one log.
func familyFor(m mode.Mode) history.Family {
	switch {
	case m.IsSearch():
		return history.FamilySearch
	case m == mode.Expression:
		return history.FamilyExpression
	default:
		return history.FamilyCommand
	}
}

// bump invalidates any in-flight completion result for the session.
func (s *Session) bump() uint64 {
	s.generation++
	return s.generation
}

// View is an immutable snapshot of visible session state handed to the
// host's renderer.
type View struct {
	Prompt      rune
	Text        string
	Cursor      int
	Completions []complete.Item
	Selected    int
	Dropped     int
}

func (s *Session) view() View {
	items := make([]complete.Item, len(s.completions))
	copy(items, s.completions)
	return View{
		Prompt:      s.Mode.Prompt(),
		Text:        s.buf.Text(),
		Cursor:      s.buf.Cursor(),
		Completions: items,
		Selected:    s.selected,
		Dropped:     s.dropped,
	}
}

// Renderer is the host-owned display surface. Render is invoked after
// every visible mutation and must tolerate redundant calls. It runs
// under the controller lock and must not call back into the Controller.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(View)

// Render calls the wrapped function.
func (f RendererFunc) Render(v View) { f(v) }
