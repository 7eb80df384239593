// Package dispatch resolves finalized console input to one of four
// execution strategies and drives the host's execution services.
//
// Dispatch always runs after the session has been torn down, so a
// failure here can surface to the user but can never leave a half-open
// session behind.
package dispatch

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dshills/cmdcon/internal/console/mode"
)

// Origin identifies where a session was invoked from, plus an optional
// pre-seeded range marker to prepend to non-quit commands.
type Origin struct {
	Window WindowID
	Buffer BufferID
	Range  string
}

// Request carries everything needed to execute finalized input.
type Request struct {
	Mode   mode.Mode
	Text   string
	Origin Origin
}

// Status is the outcome class of a dispatch.
type Status uint8

// Dispatch outcomes.
const (
	StatusOK Status = iota
	StatusNoOp
)

// Result is a successful dispatch outcome. Message carries user-visible
// output such as a formatted expression value.
type Result struct {
	Status  Status
	Message string
}

// hostErrorCode matches host-internal error-code prefixes such as
// "E492: " that are stripped before a message is surfaced.
var hostErrorCode = regexp.MustCompile(`^(?:E\d+:\s*)+`)

// Dispatcher executes finalized console input against host services.
type Dispatcher struct {
	services Services
	logger   *slog.Logger
}

// New creates a dispatcher over the given host services. A nil logger
// disables logging.
func New(services Services, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{services: services, logger: logger}
}

// Dispatch trims and executes the request. An empty trimmed string is a
// successful no-op for every mode. Errors are classified (*Error) and
// meant for notification-style display, never a host crash.
func (d *Dispatcher) Dispatch(req Request) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{Status: StatusNoOp}, nil
	}

	switch req.Mode {
	case mode.Command:
		return d.dispatchCommand(text, req.Origin)
	case mode.SearchForward:
		return d.dispatchSearch(text, Forward, req.Origin)
	case mode.SearchBackward:
		return d.dispatchSearch(text, Backward, req.Origin)
	case mode.Expression:
		return d.dispatchExpression(text)
	default:
		return Result{}, newError(KindInvalidMode, nil, "unrecognized console mode %d", req.Mode)
	}
}

// dispatchCommand handles ex-style commands: the quit family is
// special-cased, everything else is delegated to the host verbatim
// (range-prefixed when the session carried one).
func (d *Dispatcher) dispatchCommand(text string, origin Origin) (Result, error) {
	if spec, force, ok := parseQuit(text); ok {
		return d.dispatchQuit(spec, force, origin)
	}

	cmd := text
	if origin.Range != "" {
		cmd = origin.Range + cmd
	}
	if err := d.services.RunCommand(cmd); err != nil {
		msg := sanitizeHostError(err.Error())
		return Result{}, newError(KindExecutionFailure, err, "%s", msg)
	}
	return Result{Status: StatusOK}, nil
}

// dispatchQuit closes the origin window, writing the buffer first when
// the command implies write-then-quit and the buffer is modified. A
// write failure aborts the whole operation.
func (d *Dispatcher) dispatchQuit(spec quitSpec, force bool, origin Origin) (Result, error) {
	if spec.write && d.services.BufferModified(origin.Buffer) {
		if err := d.services.WriteBuffer(origin.Buffer); err != nil {
			return Result{}, newError(KindWriteFailure, err, "write failed: %v", err)
		}
	}
	if err := d.services.CloseWindow(origin.Window, force); err != nil {
		return Result{}, newError(KindExecutionFailure, err, "%s", sanitizeHostError(err.Error()))
	}
	return Result{Status: StatusOK}, nil
}

// dispatchSearch registers the pattern and runs the host search. The
// origin window is refocused first on a best-effort basis.
func (d *Dispatcher) dispatchSearch(pattern string, dir Direction, origin Origin) (Result, error) {
	if err := d.services.FocusWindow(origin.Window); err != nil {
		// Origin window may be gone; the search still runs.
		if d.logger != nil {
			d.logger.Debug("origin window not focusable", "window", string(origin.Window), "error", err)
		}
	}

	if err := d.services.SetSearchPattern(pattern, dir); err != nil {
		return Result{}, newError(KindSearchFailure, err, "%v", err)
	}
	if err := d.services.ExecuteSearch(dir); err != nil {
		return Result{}, newError(KindSearchFailure, err, "%v", err)
	}
	return Result{Status: StatusOK}, nil
}

// dispatchExpression strips any leading marker, evaluates the text as an
// expression, and falls back to a statement block when it does not
// parse as one. A present result value is surfaced via Result.Message.
func (d *Dispatcher) dispatchExpression(text string) (Result, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "="))
	if text == "" {
		return Result{Status: StatusNoOp}, nil
	}

	val, err := d.services.Evaluate(text)
	if err != nil && errors.Is(err, ErrNotExpression) {
		val, err = d.services.EvaluateBlock(text)
	}
	if err != nil {
		return Result{}, newError(KindEvaluationError, err, "%v", err)
	}
	if val.Absent {
		return Result{Status: StatusOK}, nil
	}
	return Result{Status: StatusOK, Message: val.Repr}, nil
}

// sanitizeHostError strips host-internal error-code prefixes from a
// message before it is surfaced.
func sanitizeHostError(msg string) string {
	return hostErrorCode.ReplaceAllString(msg, "")
}
