package sources

import (
	"context"
	"strings"

	"github.com/dshills/cmdcon/internal/console/complete"
	"github.com/dshills/cmdcon/internal/console/history"
)

// historyBasePriority is the weight of the newest entry; each older
// entry loses one point so recency breaks score ties.
const historyBasePriority = 60

// maxHistoryItems bounds how deep into the log the source reaches.
const maxHistoryItems = 50

// HistorySource completes from previously executed input. The history
// family is chosen from the query intent, so search-mode sessions see
// search history and command-mode sessions see command history.
type HistorySource struct {
	store history.Store
}

// NewHistorySource creates a source over a history store.
func NewHistorySource(store history.Store) *HistorySource {
	return &HistorySource{store: store}
}

// Name identifies the source in logs and items.
func (s *HistorySource) Name() string { return "history" }

// Query returns history entries containing the query, newest first.
func (s *HistorySource) Query(_ context.Context, intent complete.Intent, query string) ([]complete.Item, error) {
	entries, err := s.store.List(familyForIntent(intent))
	if err != nil {
		return nil, err
	}
	if len(entries) > maxHistoryItems {
		entries = entries[:maxHistoryItems]
	}

	query = strings.ToLower(query)
	var items []complete.Item
	for i, entry := range entries {
		if query != "" && !strings.Contains(strings.ToLower(entry), query) {
			continue
		}
		items = append(items, complete.Item{
			Text:     entry,
			Kind:     complete.KindHistory,
			Priority: historyBasePriority - i,
			Source:   s.Name(),
		})
	}
	return items, nil
}

func familyForIntent(intent complete.Intent) history.Family {
	switch intent {
	case complete.IntentSearch:
		return history.FamilySearch
	case complete.IntentExpression:
		return history.FamilyExpression
	default:
		return history.FamilyCommand
	}
}
