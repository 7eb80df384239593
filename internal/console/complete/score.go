package complete

import (
	"sort"
	"strings"

	"github.com/dshills/cmdcon/internal/console/mode"
)

// Score bonuses per match class. A better match class always outranks a
// worse one at equal priority.
const (
	exactBonus     = 500
	prefixBonus    = 300
	substringBonus = 200
	fuzzyBonus     = 100
)

// QueryFor extracts the scoring query from session text: the text after
// the last whitespace for command-style modes, the full text for search
// modes.
func QueryFor(m mode.Mode, text string) string {
	if m.IsSearch() {
		return text
	}
	if idx := strings.LastIndexFunc(text, isSpace); idx >= 0 {
		return text[idx+1:]
	}
	return text
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// ScoreItem computes the score of a candidate against the query.
// Matching is case-insensitive throughout.
func ScoreItem(candidate string, priority int, query string, fuzzyEnabled bool) int {
	if query == "" {
		return priority
	}

	cand := strings.ToLower(candidate)
	q := strings.ToLower(query)

	if cand == q {
		return priority + exactBonus
	}
	if strings.HasPrefix(cand, q) {
		// Shorter completions outrank longer ones with the same prefix.
		return priority + prefixBonus - (len(candidate) - len(query))
	}
	if idx := strings.Index(cand, q); idx >= 0 {
		// Earlier matches score higher; idx+1 is the 1-based offset.
		return priority + substringBonus - (idx + 1)
	}
	if fuzzyEnabled {
		if fs := FuzzyScore(q, cand); fs > 0 {
			return priority + fuzzyBonus + fs
		}
	}
	return priority
}

// FuzzyScore greedily matches each query character in order within text.
// Each matched position contributes (100 - position), consecutive matches
// add a growing run bonus, and the total is normalized by the query
// length. Returns 0 when any query character cannot be found.
func FuzzyScore(query, text string) int {
	queryRunes := []rune(query)
	textRunes := []rune(text)
	if len(queryRunes) == 0 {
		return 0
	}

	total := 0
	run := 1
	prev := -2
	pos := 0
	for _, qr := range queryRunes {
		found := -1
		for i := pos; i < len(textRunes); i++ {
			if textRunes[i] == qr {
				found = i
				break
			}
		}
		if found < 0 {
			return 0
		}

		contribution := 100 - found
		if contribution < 0 {
			contribution = 0
		}
		total += contribution

		if found == prev+1 {
			run++
			total += 10 * run
		} else {
			run = 1
		}

		prev = found
		pos = found + 1
	}

	n := len(queryRunes)
	if n < 1 {
		n = 1
	}
	return total / n
}

// Rank scores items against the query, sorts them (score descending,
// priority descending, then text), and collapses duplicate (text, kind)
// pairs keeping the first occurrence. The input slice is not modified.
func Rank(items []Item, query string, fuzzyEnabled bool) []Item {
	scored := make([]Item, len(items))
	copy(scored, items)
	for i := range scored {
		scored[i].Score = ScoreItem(scored[i].Text, scored[i].Priority, query, fuzzyEnabled)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Priority != scored[j].Priority {
			return scored[i].Priority > scored[j].Priority
		}
		return scored[i].Text < scored[j].Text
	})

	type dedupKey struct {
		text string
		kind Kind
	}
	seen := make(map[dedupKey]struct{}, len(scored))
	result := scored[:0]
	for _, item := range scored {
		k := dedupKey{item.Text, item.Kind}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}
	return result
}

// Cap truncates items to max, reporting how many were dropped so the
// consumer can render a "+N more" affordance. max <= 0 means no cap.
func Cap(items []Item, max int) ([]Item, int) {
	if max <= 0 || len(items) <= max {
		return items, 0
	}
	return items[:max], len(items) - max
}
