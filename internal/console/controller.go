package console

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/cmdcon/internal/console/complete"
	"github.com/dshills/cmdcon/internal/console/dispatch"
	"github.com/dshills/cmdcon/internal/console/history"
	"github.com/dshills/cmdcon/internal/console/linebuf"
	"github.com/dshills/cmdcon/internal/console/mode"
	"github.com/dshills/cmdcon/internal/key"
)

// Controller owns the single active session and mediates between the
// host's input loop and the console internals. At most one session is
// active at a time; Open while active is a no-op.
//
// The completion engine delivers results on its own goroutine, so all
// session state is guarded by the controller mutex.
type Controller struct {
	engine     *complete.Engine
	dispatcher *dispatch.Dispatcher
	store      history.Store
	renderer   Renderer
	logger     *slog.Logger

	undoCapacity    int
	undoGroupWindow time.Duration

	mu      sync.Mutex
	session *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithUndo sets the undo snapshot capacity and edit-coalescing window
// for sessions opened afterward. Non-positive values select the
// defaults.
func WithUndo(capacity int, groupWindow time.Duration) Option {
	return func(c *Controller) {
		c.undoCapacity = capacity
		c.undoGroupWindow = groupWindow
	}
}

// NewController wires the console together. A nil renderer disables
// render notifications; a nil logger discards logs.
func NewController(engine *complete.Engine, dispatcher *dispatch.Dispatcher, store history.Store, renderer Renderer, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		engine:          engine,
		dispatcher:      dispatcher,
		store:           store,
		renderer:        renderer,
		logger:          logger,
		undoCapacity:    linebuf.DefaultUndoCapacity,
		undoGroupWindow: linebuf.DefaultGroupWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	engine.SetOnResult(c.applyResult)
	return c
}

// IsActive reports whether a session is open.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Open starts a session in the given mode. No-op while a session is
// already active.
func (c *Controller) Open(m mode.Mode, origin dispatch.Origin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.logger.Debug("open ignored, session already active", "id", c.session.ID)
		return
	}
	if !m.Valid() {
		m = mode.Command
	}
	c.session = newSession(m, origin, c.store, c.undoCapacity, c.undoGroupWindow)
	c.logger.Debug("session opened", "id", c.session.ID, "mode", m)
	c.renderLocked()
}

// Close tears the session down: the pending completion request is
// cancelled, the cache is invalidated, and the generation is advanced
// so no in-flight result can touch the dead session. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.session == nil {
		return
	}
	c.session.bump()
	c.engine.Cancel()
	c.engine.InvalidateCache()
	c.logger.Debug("session closed", "id", c.session.ID)
	c.session = nil
}

// FeedKeystroke routes one key event into the active session. Returns
// false when no session is active or the event has no binding; Enter
// and Escape are deliberately unbound so the host decides when to call
// Finalize or Close.
func (c *Controller) FeedKeystroke(ev key.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return false
	}

	switch {
	case ev.IsChar() && !ev.IsModified():
		c.edit(s, func() bool { s.buf.Insert(string(ev.Rune)); return true })
	case ev.Key == key.KeySpace && !ev.IsModified():
		c.edit(s, func() bool { s.buf.Insert(" "); return true })
	case ev.Key == key.KeyBackspace:
		c.edit(s, s.buf.DeleteCharBefore)
	case ev.Key == key.KeyDelete:
		c.edit(s, s.buf.DeleteCharAt)
	case ev.IsRune() && ev.Modifiers.HasCtrl() && ev.Rune == 'w':
		c.edit(s, s.buf.DeleteWordBefore)
	case ev.IsRune() && ev.Modifiers.HasCtrl() && ev.Rune == 'u':
		c.deleteToStart(s)
	case ev.IsRune() && ev.Modifiers.HasCtrl() && ev.Rune == 'z':
		c.undo(s)
	case ev.IsRune() && ev.Modifiers.HasCtrl() && ev.Rune == 'y':
		c.redo(s)
	case ev.Key == key.KeyLeft && ev.Modifiers.HasCtrl():
		c.move(s, linebuf.MotionWordLeft)
	case ev.Key == key.KeyRight && ev.Modifiers.HasCtrl():
		c.move(s, linebuf.MotionWordRight)
	case ev.Key == key.KeyLeft:
		c.move(s, linebuf.MotionLeft)
	case ev.Key == key.KeyRight:
		c.move(s, linebuf.MotionRight)
	case ev.Key == key.KeyHome:
		c.move(s, linebuf.MotionHome)
	case ev.Key == key.KeyEnd:
		c.move(s, linebuf.MotionEnd)
	case ev.Key == key.KeyUp:
		c.navigateHistory(s, linebuf.HistoryUp)
	case ev.Key == key.KeyDown:
		c.navigateHistory(s, linebuf.HistoryDown)
	case ev.Key == key.KeyTab && ev.Modifiers.HasShift():
		c.cycleSelection(s, -1)
	case ev.Key == key.KeyTab:
		c.cycleSelection(s, +1)
	default:
		return false
	}
	return true
}

// Finalize captures the session's text, appends it to history, tears
// the session down, and only then dispatches, so host focus is restored
// before the command runs. Returns a no-op result when inactive.
func (c *Controller) Finalize() (dispatch.Result, error) {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return dispatch.Result{Status: dispatch.StatusNoOp}, nil
	}

	req := dispatch.Request{
		Mode:   s.Mode,
		Text:   s.buf.Text(),
		Origin: s.Origin,
	}
	if err := s.nav.Append(req.Text); err != nil {
		c.logger.Warn("history append failed", "error", err)
	}
	c.closeLocked()
	c.mu.Unlock()

	return c.dispatcher.Dispatch(req)
}

// edit runs a text mutation with undo bookkeeping: the pre-edit
// snapshot is recorded (subject to grouping), history browsing resets,
// and a fresh completion request is scheduled. A mutation that reports
// no effect leaves the undo and redo stacks untouched.
func (c *Controller) edit(s *Session, mutate func() bool) {
	pre := s.buf.Snapshot()
	if !mutate() {
		return
	}
	s.undo.RecordEdit(pre)
	s.nav.Reset()
	c.requestCompletion(s)
	c.renderLocked()
}

// deleteToStart clears the line and drops completions without going
// back through the scoring path. No-op on an already empty line.
func (c *Controller) deleteToStart(s *Session) {
	if s.buf.Len() == 0 {
		return
	}
	s.undo.RecordEdit(s.buf.Snapshot())
	s.buf.DeleteToStart()
	s.nav.Reset()
	s.bump()
	c.engine.Cancel()
	c.clearCompletions(s)
	c.renderLocked()
}

func (c *Controller) undo(s *Session) {
	snap, err := s.undo.Undo(s.buf.Snapshot())
	if err != nil {
		return
	}
	s.buf.Restore(snap)
	c.requestCompletion(s)
	c.renderLocked()
}

func (c *Controller) redo(s *Session) {
	snap, err := s.undo.Redo(s.buf.Snapshot())
	if err != nil {
		return
	}
	s.buf.Restore(snap)
	c.requestCompletion(s)
	c.renderLocked()
}

func (c *Controller) move(s *Session, m linebuf.Motion) {
	s.buf.MoveCursor(m)
	c.renderLocked()
}

// navigateHistory replaces the text wholesale without touching the undo
// stack.
func (c *Controller) navigateHistory(s *Session, dir linebuf.HistoryDirection) {
	text, ok := s.nav.Navigate(dir)
	if !ok {
		return
	}
	s.buf.SetText(text)
	c.requestCompletion(s)
	c.renderLocked()
}

func (c *Controller) cycleSelection(s *Session, delta int) {
	n := len(s.completions)
	if n == 0 {
		return
	}
	s.selected += delta
	switch {
	case s.selected > n:
		s.selected = 0
	case s.selected < 0:
		s.selected = n
	}
	c.renderLocked()
}

// requestCompletion schedules a debounced completion request for the
// session's current text.
func (c *Controller) requestCompletion(s *Session) {
	c.engine.Request(complete.Request{
		Mode:       s.Mode,
		Text:       s.buf.Text(),
		Generation: s.bump(),
	})
}

// applyResult is the engine's delivery callback. The generation and
// text checks reject results computed against state the session has
// since left behind.
func (c *Controller) applyResult(res complete.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return
	}
	if res.Request.Generation != s.generation || res.Request.Text != s.buf.Text() {
		c.logger.Debug("stale completion result discarded", "text", res.Request.Text)
		return
	}
	s.completions = res.Items
	s.dropped = res.Dropped
	s.selected = 0
	c.renderLocked()
}

func (c *Controller) clearCompletions(s *Session) {
	s.completions = nil
	s.dropped = 0
	s.selected = 0
}

// renderLocked notifies the host renderer. Callers hold c.mu; the
// renderer receives a copied snapshot so it cannot race session state.
func (c *Controller) renderLocked() {
	if c.renderer == nil || c.session == nil {
		return
	}
	c.renderer.Render(c.session.view())
}
