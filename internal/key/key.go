// Package key defines the keystroke event model consumed by the console.
package key

// Key identifies a pressed key.
type Key uint16

// Key values. KeyRune carries a printable character in Event.Rune.
const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeySpace
)

// IsSpecial returns true for non-character keys.
func (k Key) IsSpecial() bool {
	return k != KeyRune && k != KeyNone
}

// String returns the canonical key name.
func (k Key) String() string {
	switch k {
	case KeyRune:
		return "Rune"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Esc"
	case KeyBackspace:
		return "BS"
	case KeyDelete:
		return "Del"
	case KeyTab:
		return "Tab"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeySpace:
		return "Space"
	default:
		return "None"
	}
}

// Modifier is a bitmask of modifier keys.
type Modifier uint8

// Modifier flags.
const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << iota
	ModAlt
	ModShift
)

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }
