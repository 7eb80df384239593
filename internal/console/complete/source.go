package complete

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source provides raw completion candidates for an intent. Query must
// honor ctx cancellation; failures and timeouts are treated as an empty
// result, never an error surfaced to the user.
type Source interface {
	Name() string
	Query(ctx context.Context, intent Intent, query string) ([]Item, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, intent Intent, query string) ([]Item, error)
}

// Name returns the source name.
func (s SourceFunc) Name() string { return s.SourceName }

// Query invokes the wrapped function.
func (s SourceFunc) Query(ctx context.Context, intent Intent, query string) ([]Item, error) {
	return s.Fn(ctx, intent, query)
}

// Registry maps intents to their primary sources plus a generic fallback
// used when a primary yields nothing. Intents whose absence is itself
// meaningful (symbols without a symbol provider) never fall back.
type Registry struct {
	mu         sync.RWMutex
	primary    map[Intent]Source
	fallback   Source
	noFallback map[Intent]bool
}

// NewRegistry creates an empty registry. Symbol lookups are exempt from
// fallback by default.
func NewRegistry() *Registry {
	return &Registry{
		primary:    make(map[Intent]Source),
		noFallback: map[Intent]bool{IntentSymbol: true},
	}
}

// Register sets the primary source for an intent.
func (r *Registry) Register(intent Intent, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primary[intent] = src
}

// SetFallback sets the generic fallback source.
func (r *Registry) SetFallback(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = src
}

// SetNoFallback marks whether an intent is exempt from fallback.
func (r *Registry) SetNoFallback(intent Intent, exempt bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noFallback[intent] = exempt
}

// Collect queries the primary source for the intent, bounded by timeout,
// falling back to the generic source when the primary yields nothing.
// A slow or failing provider contributes an empty result.
func (r *Registry) Collect(ctx context.Context, intent Intent, query string, timeout time.Duration, logger *slog.Logger) []Item {
	r.mu.RLock()
	primary := r.primary[intent]
	fallback := r.fallback
	exempt := r.noFallback[intent]
	r.mu.RUnlock()

	if primary != nil {
		items := querySource(ctx, primary, intent, query, timeout, logger)
		if len(items) > 0 {
			return items
		}
	}
	if exempt || fallback == nil {
		return nil
	}
	return querySource(ctx, fallback, intent, query, timeout, logger)
}

// querySource runs one source under a timeout guard. The provider is
// invoked on its own goroutine so a blocking implementation cannot stall
// the pipeline past the deadline.
func querySource(ctx context.Context, src Source, intent Intent, query string, timeout time.Duration, logger *slog.Logger) []Item {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type response struct {
		items []Item
		err   error
	}
	ch := make(chan response, 1)
	go func() {
		items, err := src.Query(qctx, intent, query)
		ch <- response{items, err}
	}()

	select {
	case resp := <-ch:
		if resp.err != nil {
			if logger != nil {
				logger.Debug("completion source failed",
					"source", src.Name(), "intent", intent.String(), "error", resp.err)
			}
			return nil
		}
		return resp.items
	case <-qctx.Done():
		if logger != nil {
			logger.Warn("completion source timed out",
				"source", src.Name(), "intent", intent.String(), "timeout", timeout)
		}
		return nil
	}
}
