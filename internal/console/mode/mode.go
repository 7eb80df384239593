// Package mode defines the four fixed console interaction modes.
package mode

// Mode identifies a console interaction mode. A session's mode is fixed
// at creation and immutable thereafter.
type Mode uint8

// The four recognized modes.
const (
	Command Mode = iota
	SearchForward
	SearchBackward
	Expression
)

// Valid returns true for one of the four recognized modes.
func (m Mode) Valid() bool {
	return m <= Expression
}

// IsSearch returns true for either search direction.
func (m Mode) IsSearch() bool {
	return m == SearchForward || m == SearchBackward
}

// Prompt returns the prompt character conventionally shown for the mode.
func (m Mode) Prompt() rune {
	switch m {
	case Command:
		return ':'
	case SearchForward:
		return '/'
	case SearchBackward:
		return '?'
	case Expression:
		return '='
	default:
		return ':'
	}
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Command:
		return "command"
	case SearchForward:
		return "search-forward"
	case SearchBackward:
		return "search-backward"
	case Expression:
		return "expression"
	default:
		return "invalid"
	}
}
