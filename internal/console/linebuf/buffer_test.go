package linebuf

import (
	"testing"
	"unicode/utf8"
)

func TestInsertAdvancesCursor(t *testing.T) {
	b := New()
	for _, r := range "insert" {
		b.Insert(string(r))
	}

	if b.Text() != "insert" {
		t.Errorf("Text() = %q, want %q", b.Text(), "insert")
	}
	if b.Cursor() != 7 {
		t.Errorf("Cursor() = %d, want 7", b.Cursor())
	}
}

func TestInsertAtCursor(t *testing.T) {
	b := New()
	b.Insert("set nu")
	b.MoveCursor(MotionHome)
	b.MoveCursor(MotionRight)
	b.MoveCursor(MotionRight)
	b.MoveCursor(MotionRight)
	b.Insert("X")

	if b.Text() != "setX nu" {
		t.Errorf("Text() = %q, want %q", b.Text(), "setX nu")
	}
	if b.Cursor() != 5 {
		t.Errorf("Cursor() = %d, want 5", b.Cursor())
	}
}

func TestDeleteCharBefore(t *testing.T) {
	b := New()
	b.Insert("set nu")
	b.DeleteCharBefore()
	b.DeleteCharBefore()
	b.DeleteCharBefore()

	if b.Text() != "set" {
		t.Errorf("Text() = %q, want %q", b.Text(), "set")
	}
	if b.Cursor() != 4 {
		t.Errorf("Cursor() = %d, want 4", b.Cursor())
	}
}

func TestDeleteCharBeforeAtStart(t *testing.T) {
	b := New()
	if b.DeleteCharBefore() {
		t.Error("DeleteCharBefore() on empty buffer = true, want false")
	}
	b.Insert("ab")
	b.MoveCursor(MotionHome)
	if b.DeleteCharBefore() {
		t.Error("DeleteCharBefore() at cursor 1 = true, want false")
	}
	if b.Text() != "ab" {
		t.Errorf("Text() = %q, want %q", b.Text(), "ab")
	}
}

func TestDeleteCharBeforeMultibyte(t *testing.T) {
	b := New()
	b.Insert("héllo")
	for i := 0; i < 4; i++ {
		b.DeleteCharBefore()
	}

	if b.Text() != "h" {
		t.Errorf("Text() = %q, want %q", b.Text(), "h")
	}
	if b.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", b.Cursor())
	}
	if !utf8.ValidString(b.Text()) {
		t.Errorf("Text() = %q is not valid UTF-8", b.Text())
	}
}

func TestDeleteWordBefore(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantText   string
		wantCursor int
	}{
		{"single word", "edit", "", 1},
		{"two words", "edit foo.txt", "edit ", 6},
		{"trailing space", "edit foo ", "edit ", 6},
		{"only spaces", "   ", "", 1},
		{"empty", "", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.Insert(tt.text)
			b.DeleteWordBefore()

			if b.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", b.Text(), tt.wantText)
			}
			if b.Cursor() != tt.wantCursor {
				t.Errorf("Cursor() = %d, want %d", b.Cursor(), tt.wantCursor)
			}
		})
	}
}

func TestDeleteWordBeforeAtStart(t *testing.T) {
	b := New()
	b.Insert("word")
	b.MoveCursor(MotionHome)
	if b.DeleteWordBefore() {
		t.Error("DeleteWordBefore() at cursor 1 = true, want false")
	}
	if b.Text() != "word" {
		t.Errorf("Text() = %q, want %q", b.Text(), "word")
	}
}

func TestDeleteToStart(t *testing.T) {
	b := New()
	b.Insert("some command")
	b.DeleteToStart()

	if b.Text() != "" {
		t.Errorf("Text() = %q, want empty", b.Text())
	}
	if b.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", b.Cursor())
	}
}

func TestDeleteCharAt(t *testing.T) {
	b := New()
	b.Insert("abc")
	b.MoveCursor(MotionHome)
	if !b.DeleteCharAt() {
		t.Fatal("DeleteCharAt() = false, want true")
	}
	if b.Text() != "bc" {
		t.Errorf("Text() = %q, want %q", b.Text(), "bc")
	}

	b.MoveCursor(MotionEnd)
	if b.DeleteCharAt() {
		t.Error("DeleteCharAt() at end = true, want false")
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		motions    []Motion
		wantCursor int
	}{
		{"end", "abc", []Motion{MotionEnd}, 4},
		{"home", "abc", []Motion{MotionHome}, 1},
		{"left from end", "abc", []Motion{MotionLeft}, 3},
		{"left clamped", "abc", []Motion{MotionHome, MotionLeft}, 1},
		{"right clamped", "abc", []Motion{MotionRight}, 4},
		{"word left", "edit foo", []Motion{MotionWordLeft}, 6},
		{"word right", "edit foo", []Motion{MotionHome, MotionWordRight}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.Insert(tt.text)
			for _, m := range tt.motions {
				b.MoveCursor(m)
			}
			if b.Cursor() != tt.wantCursor {
				t.Errorf("Cursor() = %d, want %d", b.Cursor(), tt.wantCursor)
			}
		})
	}
}

func TestMoveCursorMultibyte(t *testing.T) {
	b := New()
	b.Insert("é")
	b.MoveCursor(MotionLeft)
	if b.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", b.Cursor())
	}
	b.MoveCursor(MotionRight)
	if b.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3 (past 2-byte rune)", b.Cursor())
	}
}

// TestCursorInvariant drives a mixed operation sequence and checks the
// cursor bound after every step.
func TestCursorInvariant(t *testing.T) {
	b := New()
	ops := []func(){
		func() { b.Insert("hello world") },
		func() { b.DeleteCharBefore() },
		func() { b.MoveCursor(MotionHome) },
		func() { b.DeleteWordBefore() },
		func() { b.Insert("é") },
		func() { b.MoveCursor(MotionLeft) },
		func() { b.MoveCursor(MotionLeft) },
		func() { b.DeleteCharBefore() },
		func() { b.MoveCursor(MotionEnd) },
		func() { b.DeleteWordBefore() },
		func() { b.DeleteToStart() },
		func() { b.DeleteCharBefore() },
		func() { b.Insert("x") },
	}

	for i, op := range ops {
		op()
		if b.Cursor() < 1 || b.Cursor() > b.Len()+1 {
			t.Fatalf("after op %d: cursor %d out of [1, %d]", i, b.Cursor(), b.Len()+1)
		}
	}
}

func TestSetTextMovesCursorToEnd(t *testing.T) {
	b := New()
	b.Insert("abc")
	b.MoveCursor(MotionHome)
	b.SetText("edit foo.txt")

	if b.Cursor() != len("edit foo.txt")+1 {
		t.Errorf("Cursor() = %d, want %d", b.Cursor(), len("edit foo.txt")+1)
	}
}

func TestRestoreClampsCursor(t *testing.T) {
	b := New()
	b.Restore(Snapshot{Text: "ab", Cursor: 99})
	if b.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", b.Cursor())
	}
	b.Restore(Snapshot{Text: "ab", Cursor: -5})
	if b.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", b.Cursor())
	}
}
