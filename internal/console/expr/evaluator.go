// Package expr provides a Lua-backed implementation of the expression
// half of the dispatcher's host services.
//
// gopher-lua's LState is not goroutine-safe; the Evaluator serializes
// all access through its own mutex.
package expr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cmdcon/internal/console/dispatch"
)

// ErrEvaluatorClosed is returned when evaluating on a closed Evaluator.
var ErrEvaluatorClosed = errors.New("expr: evaluator is closed")

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 2 * time.Second

// Evaluator evaluates console expression input against a persistent Lua
// state, so variables assigned in one evaluation remain visible to the
// next.
type Evaluator struct {
	mu      sync.Mutex
	state   *lua.LState
	timeout time.Duration
	closed  bool
}

// NewEvaluator creates an evaluator. A non-positive timeout selects the
// default.
func NewEvaluator(timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Evaluator{
		state:   lua.NewState(),
		timeout: timeout,
	}
}

// Close releases the Lua state. Further evaluations fail.
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.state.Close()
}

// Evaluate evaluates text as a single expression. Text that does not
// compile as an expression yields dispatch.ErrNotExpression so the
// caller can retry it as a statement block.
func (e *Evaluator) Evaluate(text string) (dispatch.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return dispatch.Value{}, ErrEvaluatorClosed
	}

	fn, err := e.state.LoadString("return " + text)
	if err != nil {
		return dispatch.Value{}, fmt.Errorf("%w: %v", dispatch.ErrNotExpression, err)
	}
	return e.call(fn)
}

// EvaluateBlock evaluates text as a full statement block.
func (e *Evaluator) EvaluateBlock(text string) (dispatch.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return dispatch.Value{}, ErrEvaluatorClosed
	}

	fn, err := e.state.LoadString(text)
	if err != nil {
		return dispatch.Value{}, fmt.Errorf("parsing statement: %v", err)
	}
	return e.call(fn)
}

// call runs a compiled chunk under the timeout guard with panic
// recovery, returning the first result value.
func (e *Evaluator) call(fn *lua.LFunction) (val dispatch.Value, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.state.SetContext(ctx)
	defer e.state.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			val = dispatch.Value{}
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()

	base := e.state.GetTop()
	e.state.Push(fn)
	if perr := e.state.PCall(0, lua.MultRet, nil); perr != nil {
		e.state.SetTop(base)
		return dispatch.Value{}, errors.New(luaErrorMessage(perr))
	}

	nret := e.state.GetTop() - base
	defer e.state.SetTop(base)
	if nret == 0 {
		return dispatch.Value{Absent: true}, nil
	}

	result := e.state.Get(base + 1)
	if result == lua.LNil {
		return dispatch.Value{Absent: true}, nil
	}
	return dispatch.Value{Repr: formatValue(result, 0)}, nil
}

// luaErrorMessage extracts the bare message from a Lua runtime error.
func luaErrorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Object.String())
	}
	return err.Error()
}

// maxFormatDepth bounds nested table rendering.
const maxFormatDepth = 3

// formatValue renders a Lua value as an inspectable string.
func formatValue(v lua.LValue, depth int) string {
	switch lv := v.(type) {
	case *lua.LTable:
		if depth >= maxFormatDepth {
			return "{...}"
		}
		return formatTable(lv, depth)
	case lua.LString:
		return string(lv)
	default:
		return v.String()
	}
}

// formatTable renders a table with deterministic key ordering.
func formatTable(t *lua.LTable, depth int) string {
	var pairs []string
	t.ForEach(func(k, v lua.LValue) {
		pairs = append(pairs, fmt.Sprintf("%s = %s", k.String(), formatValue(v, depth+1)))
	})
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ", ") + "}"
}
