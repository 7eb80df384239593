// Package linebuf implements the single-line editable text buffer behind
// the console: UTF-8 aware editing around a 1-based byte cursor, snapshot
// undo/redo with time-based grouping, and history navigation.
package linebuf

import (
	"unicode"
	"unicode/utf8"
)

// Motion identifies a cursor movement.
type Motion uint8

// Cursor motions.
const (
	MotionLeft Motion = iota
	MotionRight
	MotionHome
	MotionEnd
	MotionWordLeft
	MotionWordRight
)

// Buffer holds the editable console line. The cursor is a 1-based byte
// offset into the text; len(text)+1 means "after the last byte". All
// mutations re-clamp the cursor against the resulting text.
type Buffer struct {
	text   string
	cursor int
}

// New creates an empty buffer with the cursor at position 1.
func New() *Buffer {
	return &Buffer{cursor: 1}
}

// Text returns the current line content.
func (b *Buffer) Text() string {
	return b.text
}

// Cursor returns the 1-based byte offset of the cursor.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Len returns the byte length of the line.
func (b *Buffer) Len() int {
	return len(b.text)
}

// SetText replaces the line wholesale and moves the cursor to end-of-text.
func (b *Buffer) SetText(text string) {
	b.text = text
	b.cursor = len(text) + 1
}

// Insert splices s at the cursor and advances the cursor by len(s) bytes.
func (b *Buffer) Insert(s string) {
	if s == "" {
		return
	}
	b.clamp()
	at := b.cursor - 1
	b.text = b.text[:at] + s + b.text[at:]
	b.cursor += len(s)
}

// DeleteCharBefore removes the character before the cursor, respecting
// UTF-8 boundaries. Returns false at the start of the line.
func (b *Buffer) DeleteCharBefore() bool {
	b.clamp()
	if b.cursor == 1 {
		return false
	}
	at := b.cursor - 1
	_, size := utf8.DecodeLastRuneInString(b.text[:at])
	b.text = b.text[:at-size] + b.text[at:]
	b.cursor -= size
	return true
}

// DeleteCharAt removes the character under the cursor. Returns false at
// the end of the line.
func (b *Buffer) DeleteCharAt() bool {
	b.clamp()
	at := b.cursor - 1
	if at >= len(b.text) {
		return false
	}
	_, size := utf8.DecodeRuneInString(b.text[at:])
	b.text = b.text[:at] + b.text[at+size:]
	return true
}

// DeleteWordBefore deletes the run of non-whitespace (and any trailing
// whitespace) ending at the cursor, back to the previous whitespace
// boundary, and moves the cursor there. No-op at the start of the line.
func (b *Buffer) DeleteWordBefore() bool {
	b.clamp()
	if b.cursor == 1 {
		return false
	}
	at := b.cursor - 1
	start := wordStart(b.text, at)
	b.text = b.text[:start] + b.text[at:]
	b.cursor = start + 1
	return true
}

// DeleteToStart clears the line and resets the cursor to 1.
func (b *Buffer) DeleteToStart() {
	b.text = ""
	b.cursor = 1
}

// MoveCursor applies a motion, clamping to [1, len+1]. Left and Right step
// by whole characters, not bytes.
func (b *Buffer) MoveCursor(m Motion) {
	b.clamp()
	at := b.cursor - 1
	switch m {
	case MotionLeft:
		if at > 0 {
			_, size := utf8.DecodeLastRuneInString(b.text[:at])
			b.cursor -= size
		}
	case MotionRight:
		if at < len(b.text) {
			_, size := utf8.DecodeRuneInString(b.text[at:])
			b.cursor += size
		}
	case MotionHome:
		b.cursor = 1
	case MotionEnd:
		b.cursor = len(b.text) + 1
	case MotionWordLeft:
		b.cursor = wordStart(b.text, at) + 1
	case MotionWordRight:
		b.cursor = wordEnd(b.text, at) + 1
	}
	b.clamp()
}

// Snapshot captures the current text and cursor.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{Text: b.text, Cursor: b.cursor}
}

// Restore replaces the buffer state from a snapshot, re-clamping the
// cursor against the restored text length.
func (b *Buffer) Restore(s Snapshot) {
	b.text = s.Text
	b.cursor = s.Cursor
	b.clamp()
}

// clamp enforces 1 <= cursor <= len(text)+1.
func (b *Buffer) clamp() {
	if b.cursor < 1 {
		b.cursor = 1
	}
	if b.cursor > len(b.text)+1 {
		b.cursor = len(b.text) + 1
	}
}

// wordStart returns the byte offset of the start of the word run ending
// at offset end: trailing whitespace first, then the non-whitespace run.
func wordStart(text string, end int) int {
	i := end
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	return i
}

// wordEnd returns the byte offset just past the word run starting at
// offset start: leading whitespace first, then the non-whitespace run.
func wordEnd(text string, start int) int {
	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
