package expr

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/cmdcon/internal/console/dispatch"
)

func TestEvaluateArithmetic(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	val, err := ev.Evaluate("1 + 2")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if val.Absent {
		t.Fatal("expected a value, got absent")
	}
	if val.Repr != "3" {
		t.Errorf("Repr = %q, want %q", val.Repr, "3")
	}
}

func TestEvaluateString(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	val, err := ev.Evaluate(`"hello " .. "world"`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if val.Repr != "hello world" {
		t.Errorf("Repr = %q, want %q", val.Repr, "hello world")
	}
}

func TestEvaluateStatementIsNotExpression(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	_, err := ev.Evaluate("x = 10")
	if !errors.Is(err, dispatch.ErrNotExpression) {
		t.Fatalf("err = %v, want ErrNotExpression", err)
	}
}

func TestEvaluateBlockAssignment(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	val, err := ev.EvaluateBlock("x = 10")
	if err != nil {
		t.Fatalf("EvaluateBlock: %v", err)
	}
	if !val.Absent {
		t.Errorf("expected absent value for a statement, got %q", val.Repr)
	}

	// State persists across evaluations.
	val, err = ev.Evaluate("x * 2")
	if err != nil {
		t.Fatalf("Evaluate after block: %v", err)
	}
	if val.Repr != "20" {
		t.Errorf("Repr = %q, want %q", val.Repr, "20")
	}
}

func TestEvaluateNilIsAbsent(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	val, err := ev.Evaluate("nil")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !val.Absent {
		t.Errorf("expected absent for nil, got %q", val.Repr)
	}
}

func TestEvaluateRuntimeError(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	_, err := ev.Evaluate(`error("boom")`)
	if err == nil {
		t.Fatal("expected runtime error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %q, want it to contain %q", err, "boom")
	}
}

func TestEvaluateTableFormatting(t *testing.T) {
	ev := NewEvaluator(0)
	defer ev.Close()

	val, err := ev.Evaluate(`{a = 1, b = "two"}`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := "{a = 1, b = two}"
	if val.Repr != want {
		t.Errorf("Repr = %q, want %q", val.Repr, want)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	ev := NewEvaluator(50 * time.Millisecond)
	defer ev.Close()

	_, err := ev.EvaluateBlock("while true do end")
	if err == nil {
		t.Fatal("expected timeout error for infinite loop")
	}
}

func TestEvaluateAfterClose(t *testing.T) {
	ev := NewEvaluator(0)
	ev.Close()
	ev.Close() // idempotent

	if _, err := ev.Evaluate("1"); !errors.Is(err, ErrEvaluatorClosed) {
		t.Errorf("err = %v, want ErrEvaluatorClosed", err)
	}
}
