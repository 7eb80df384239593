package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cmdcon/internal/config"
	"github.com/dshills/cmdcon/internal/console"
	"github.com/dshills/cmdcon/internal/console/complete"
	"github.com/dshills/cmdcon/internal/console/dispatch"
	"github.com/dshills/cmdcon/internal/console/expr"
	"github.com/dshills/cmdcon/internal/console/mode"
	"github.com/dshills/cmdcon/internal/console/sources"
	"github.com/dshills/cmdcon/internal/key"
)

// maxPopupItems bounds the completion popup height.
const maxPopupItems = 10

// quitEvent signals the event loop to exit.
type quitEvent struct{ tcell.EventTime }

type app struct {
	screen    tcell.Screen
	editor    *editor
	engine    *complete.Engine
	ctrl      *console.Controller
	evaluator *expr.Evaluator
	logger    *slog.Logger

	mu      sync.Mutex
	view    console.View
	open    bool
	message string
}

func (a *app) shutdown() {
	a.ctrl.Close()
	a.engine.Cancel()
	a.evaluator.Close()
}

func (a *app) requestQuit() {
	a.screen.PostEvent(&quitEvent{})
}

// applyConfig is the hot-reload hook; only the completion tunables take
// effect at runtime.
func (a *app) applyConfig(cfg config.Config) {
	a.engine.UpdateConfig(cfg.CompleteConfig())
}

func (a *app) loop() {
	a.draw()
	for {
		switch ev := a.screen.PollEvent().(type) {
		case *quitEvent:
			return
		case *tcell.EventResize:
			a.screen.Sync()
			a.draw()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey routes one terminal key event; returns true to exit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	if a.ctrl.IsActive() {
		a.handleConsoleKey(ev)
		return false
	}

	switch {
	case ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Key() == tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ':':
			a.openConsole(mode.Command)
		case '/':
			a.openConsole(mode.SearchForward)
		case '?':
			a.openConsole(mode.SearchBackward)
		case '=':
			a.openConsole(mode.Expression)
		}
	}
	return false
}

func (a *app) openConsole(m mode.Mode) {
	a.mu.Lock()
	a.message = ""
	a.mu.Unlock()
	a.ctrl.Open(m, dispatch.Origin{Window: "demo", Buffer: "scratch"})
}

func (a *app) handleConsoleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		res, err := a.ctrl.Finalize()
		a.mu.Lock()
		a.open = false
		switch {
		case err != nil:
			a.message = err.Error()
		case res.Message != "":
			a.message = res.Message
		}
		a.mu.Unlock()
		a.draw()
	case tcell.KeyEscape:
		a.ctrl.Close()
		a.mu.Lock()
		a.open = false
		a.mu.Unlock()
		a.draw()
	default:
		if kev, ok := translateKey(ev); ok {
			a.ctrl.FeedKeystroke(kev)
		}
	}
}

// translateKey converts a tcell key event into the console's key model.
func translateKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := key.ModNone
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= key.ModShift
	}

	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return key.Event{Key: key.KeySpace, Modifiers: mods}, true
		}
		return key.Event{Key: key.KeyRune, Rune: ev.Rune(), Modifiers: mods}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Event{Key: key.KeyBackspace, Modifiers: mods}, true
	case tcell.KeyDelete:
		return key.Event{Key: key.KeyDelete, Modifiers: mods}, true
	case tcell.KeyTab:
		return key.Event{Key: key.KeyTab, Modifiers: mods}, true
	case tcell.KeyBacktab:
		return key.Event{Key: key.KeyTab, Modifiers: mods | key.ModShift}, true
	case tcell.KeyLeft:
		return key.Event{Key: key.KeyLeft, Modifiers: mods}, true
	case tcell.KeyRight:
		return key.Event{Key: key.KeyRight, Modifiers: mods}, true
	case tcell.KeyUp:
		return key.Event{Key: key.KeyUp, Modifiers: mods}, true
	case tcell.KeyDown:
		return key.Event{Key: key.KeyDown, Modifiers: mods}, true
	case tcell.KeyHome:
		return key.Event{Key: key.KeyHome, Modifiers: mods}, true
	case tcell.KeyEnd:
		return key.Event{Key: key.KeyEnd, Modifiers: mods}, true
	case tcell.KeyCtrlW:
		return key.Event{Key: key.KeyRune, Rune: 'w', Modifiers: key.ModCtrl}, true
	case tcell.KeyCtrlU:
		return key.Event{Key: key.KeyRune, Rune: 'u', Modifiers: key.ModCtrl}, true
	case tcell.KeyCtrlZ:
		return key.Event{Key: key.KeyRune, Rune: 'z', Modifiers: key.ModCtrl}, true
	case tcell.KeyCtrlY:
		return key.Event{Key: key.KeyRune, Rune: 'y', Modifiers: key.ModCtrl}, true
	}
	return key.Event{}, false
}

// renderConsole is the controller's render callback. It may run on the
// completion engine's goroutine, so it only snapshots state and redraws.
func (a *app) renderConsole(v console.View) {
	a.mu.Lock()
	a.view = v
	a.open = true
	a.mu.Unlock()
	a.draw()
}

func (a *app) draw() {
	a.mu.Lock()
	view := a.view
	open := a.open
	message := a.message
	a.mu.Unlock()

	style := tcell.StyleDefault
	a.screen.Clear()
	width, height := a.screen.Size()
	if height < 3 {
		a.screen.Show()
		return
	}

	a.editor.draw(a.screen, width, height-2)

	// Status line.
	status := `q quit   : command   / search   ? search back   = expression`
	if message != "" {
		status = message
	}
	drawText(a.screen, 0, height-2, width, status, style.Reverse(true))

	// Console line plus completion popup.
	if open {
		line := string(view.Prompt) + view.Text
		drawText(a.screen, 0, height-1, width, line, style)
		a.screen.ShowCursor(view.Cursor, height-1) // prompt shifts text right by one
		a.drawPopup(view, width, height-2)
	} else {
		a.screen.HideCursor()
	}

	a.screen.Show()
}

func (a *app) drawPopup(view console.View, width, bottom int) {
	n := len(view.Completions)
	if n == 0 {
		return
	}
	shown := n
	if shown > maxPopupItems {
		shown = maxPopupItems
	}

	style := tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	selectedStyle := style.Reverse(true)

	y := bottom - shown
	if view.Dropped > 0 || n > shown {
		y--
	}
	for i := 0; i < shown; i++ {
		item := view.Completions[i]
		text := fmt.Sprintf(" %-8s %s", item.Kind, item.Text)
		if item.Description != "" {
			text += "  (" + item.Description + ")"
		}
		st := style
		if view.Selected == i+1 {
			st = selectedStyle
		}
		drawText(a.screen, 0, y+i, width/2, text, st)
	}
	hidden := view.Dropped + (n - shown)
	if hidden > 0 {
		drawText(a.screen, 0, bottom-1, width/2, fmt.Sprintf(" +%d more", hidden), style)
	}
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	// Pad to the full width so styled lines form a bar.
	for col < x+maxWidth {
		s.SetContent(col, y, ' ', nil, style)
		col++
	}
}

// editor is the scratch buffer the demo host edits against.
type editor struct {
	mu            sync.Mutex
	lines         []string
	modified      bool
	searchPattern string
	searchLine    int // -1 = no match highlighted
	options       map[string]string
}

func newEditor() *editor {
	return &editor{
		lines: []string{
			"cmdcon demo scratch buffer",
			"",
			"This host wires the console engine to a toy editor.",
			"Try \":set number\", \":edit <Tab>\", \"/scratch\" or \"=1+2\".",
			"Unknown commands surface sanitized host errors.",
			"",
			"TODO markers in this text are search fodder: TODO one, TODO two.",
		},
		searchLine: -1,
		options:    make(map[string]string),
	}
}

func (e *editor) buffers() []sources.BufferInfo {
	return []sources.BufferInfo{{Name: "scratch", Modified: e.isModified()}}
}

func (e *editor) isModified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modified
}

func (e *editor) draw(s tcell.Screen, width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	style := tcell.StyleDefault
	match := style.Background(tcell.ColorDarkGreen)
	for i, line := range e.lines {
		if i >= height {
			break
		}
		st := style
		if i == e.searchLine {
			st = match
		}
		drawText(s, 0, i, width, line, st)
	}
}

// hostServices adapts the demo editor to the dispatcher's contract.
type hostServices struct {
	app *app
}

func (h *hostServices) RunCommand(text string) error {
	e := h.app.editor
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "set":
		e.mu.Lock()
		defer e.mu.Unlock()
		if len(fields) > 1 {
			e.options[fields[1]] = "on"
		}
		return nil
	case "edit", "e":
		e.mu.Lock()
		defer e.mu.Unlock()
		if len(fields) > 1 {
			e.lines = append(e.lines, "-- opened "+fields[1]+" --")
			e.modified = true
		}
		return nil
	default:
		return fmt.Errorf("E492: Not an editor command: %s", fields[0])
	}
}

func (h *hostServices) WriteBuffer(dispatch.BufferID) error {
	e := h.app.editor
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modified = false
	return nil
}

func (h *hostServices) BufferModified(dispatch.BufferID) bool {
	return h.app.editor.isModified()
}

func (h *hostServices) CloseWindow(dispatch.WindowID, bool) error {
	h.app.requestQuit()
	return nil
}

func (h *hostServices) FocusWindow(dispatch.WindowID) error { return nil }

func (h *hostServices) SetSearchPattern(pattern string, _ dispatch.Direction) error {
	e := h.app.editor
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searchPattern = pattern
	return nil
}

func (h *hostServices) ExecuteSearch(dir dispatch.Direction) error {
	e := h.app.editor
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.searchPattern == "" {
		return nil
	}
	indexes := make([]int, 0, len(e.lines))
	for i, line := range e.lines {
		if strings.Contains(line, e.searchPattern) {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		e.searchLine = -1
		return fmt.Errorf("E486: Pattern not found: %s", e.searchPattern)
	}
	if dir == dispatch.Backward {
		e.searchLine = indexes[len(indexes)-1]
	} else {
		e.searchLine = indexes[0]
	}
	return nil
}

func (h *hostServices) Evaluate(text string) (dispatch.Value, error) {
	return h.app.evaluator.Evaluate(text)
}

func (h *hostServices) EvaluateBlock(text string) (dispatch.Value, error) {
	return h.app.evaluator.EvaluateBlock(text)
}
