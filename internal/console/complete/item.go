// Package complete implements the asynchronous completion pipeline:
// debounced requests, TTL-cached results, intent-routed source dispatch
// with per-source timeouts, scoring with subsequence fuzzy matching, and
// generation-guarded result application.
package complete

// Kind tags the origin category of a completion item.
type Kind uint8

// Completion item kinds.
const (
	KindCommand Kind = iota
	KindFile
	KindBuffer
	KindWord
	KindHistory
	KindSymbol
	KindVcsStatus
	KindHelp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindFile:
		return "file"
	case KindBuffer:
		return "buffer"
	case KindWord:
		return "word"
	case KindHistory:
		return "history"
	case KindSymbol:
		return "symbol"
	case KindVcsStatus:
		return "vcs"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Item is a single completion candidate. Description may be empty;
// Priority is the source-declared base weight and Score is computed per
// query by the engine.
type Item struct {
	Text        string
	Kind        Kind
	Description string
	Priority    int
	Score       int
	Source      string
}
