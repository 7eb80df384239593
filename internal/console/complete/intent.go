package complete

import (
	"strings"

	"github.com/dshills/cmdcon/internal/console/mode"
)

// Intent is the classified purpose of the current input text. It selects
// the primary completion source.
type Intent uint8

// Recognized intents.
const (
	IntentGeneric Intent = iota
	IntentFile
	IntentBuffer
	IntentSymbol
	IntentVcs
	IntentHelp
	IntentSearch
	IntentExpression
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentFile:
		return "file"
	case IntentBuffer:
		return "buffer"
	case IntentSymbol:
		return "symbol"
	case IntentVcs:
		return "vcs"
	case IntentHelp:
		return "help"
	case IntentSearch:
		return "search"
	case IntentExpression:
		return "expression"
	default:
		return "generic"
	}
}

// Rule maps a first-token predicate to an intent. Rules are evaluated
// top to bottom; the first match wins.
type Rule struct {
	Match  func(token string) bool
	Intent Intent
}

// Classifier turns session text into an intent via an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier with the given rules.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// NewDefaultClassifier creates a classifier with the built-in ex-command
// rules.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules())
}

// tokenSet builds a predicate matching any of the listed tokens exactly.
func tokenSet(tokens ...string) func(string) bool {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return func(token string) bool {
		_, ok := set[token]
		return ok
	}
}

// DefaultRules returns the built-in intent rules, ordered.
func DefaultRules() []Rule {
	return []Rule{
		{tokenSet("e", "ed", "edi", "edit", "tabe", "tabedit", "sp", "split", "vs", "vsplit", "r", "read", "sav", "saveas"), IntentFile},
		{tokenSet("b", "bu", "buf", "buffer", "bd", "bdelete", "bn", "bnext", "bp", "bprev", "sb", "sbuffer"), IntentBuffer},
		{tokenSet("ta", "tag", "ts", "tselect", "tj", "tjump"), IntentSymbol},
		{tokenSet("git", "Git", "G"), IntentVcs},
		{tokenSet("h", "he", "hel", "help"), IntentHelp},
	}
}

// Classify determines the intent for the given mode and text. Search-mode
// text is always IntentSearch and expression-mode text always
// IntentExpression; otherwise the first token is run through the rules,
// falling back to IntentGeneric.
func (c *Classifier) Classify(m mode.Mode, text string) Intent {
	if m.IsSearch() {
		return IntentSearch
	}
	if m == mode.Expression {
		return IntentExpression
	}

	token := firstToken(text)
	if token == "" {
		return IntentGeneric
	}
	// A trailing force marker does not change the command's intent.
	token = strings.TrimSuffix(token, "!")

	for _, rule := range c.rules {
		if rule.Match(token) {
			return rule.Intent
		}
	}
	return IntentGeneric
}

// firstToken returns the first whitespace-delimited token of text.
func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
