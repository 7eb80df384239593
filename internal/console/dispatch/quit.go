package dispatch

import "strings"

// forceMarker suffixes a quit-family command to discard unsaved changes.
const forceMarker = "!"

// quitSpec describes one quit-family command.
type quitSpec struct {
	// write requests a write of the target buffer before quitting when
	// it has unsaved changes.
	write bool
}

// quitCommands is the quit-family command set. Each entry may carry a
// trailing force marker in the input.
var quitCommands = map[string]quitSpec{
	"q":    {},
	"quit": {},
	"qa":   {},
	"qall": {},
	"exit": {},
	"ZQ":   {},
	"wq":   {write: true},
	"x":    {write: true},
	"ZZ":   {write: true},
}

// parseQuit recognizes quit-family text. ok is false for anything that
// is not exactly a quit command with an optional force marker.
func parseQuit(text string) (spec quitSpec, force bool, ok bool) {
	base := text
	if strings.HasSuffix(base, forceMarker) {
		force = true
		base = strings.TrimSuffix(base, forceMarker)
	}
	spec, ok = quitCommands[base]
	return spec, force, ok
}
