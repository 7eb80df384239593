package complete

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/cmdcon/internal/console/mode"
)

// Config holds the completion engine tunables.
type Config struct {
	// Debounce is the delay between a keystroke and the source query it
	// schedules. A newer keystroke cancels and replaces a pending one.
	Debounce time.Duration

	// SourceTimeout bounds a single source query.
	SourceTimeout time.Duration

	// MaxItems caps the delivered result list. Items beyond the cap are
	// counted, not silently discarded.
	MaxItems int

	// CacheSize bounds the result cache entry count.
	CacheSize int

	// CacheTTL bounds the freshness of a cached result set.
	CacheTTL time.Duration

	// FuzzyEnabled turns on subsequence fuzzy scoring.
	FuzzyEnabled bool
}

// DefaultConfig returns the default engine tunables.
func DefaultConfig() Config {
	return Config{
		Debounce:      60 * time.Millisecond,
		SourceTimeout: 2 * time.Second,
		MaxItems:      50,
		CacheSize:     100,
		CacheTTL:      5 * time.Second,
		FuzzyEnabled:  true,
	}
}

// Request is a snapshot of session state a completion computation runs
// against. Generation advances on every text change and on session
// close; a result whose snapshot no longer matches is discarded.
type Request struct {
	Mode       mode.Mode
	Text       string
	Generation uint64
}

// Result is a finished computation: the originating request, the ranked
// capped items, and how many ranked items the cap dropped.
type Result struct {
	Request Request
	Items   []Item
	Dropped int
}

// Engine runs the completion pipeline. At most one request is pending at
// a time; scheduling a new one cancels and replaces it.
type Engine struct {
	mu         sync.Mutex
	cfg        Config
	registry   *Registry
	classifier *Classifier
	cache      *TTLCache
	logger     *slog.Logger
	onResult   func(Result)

	timer  *time.Timer
	latest Request
	active bool
	seq    uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an engine over the given source registry. A nil classifier
// selects the default rules; a nil logger disables logging.
func New(cfg Config, registry *Registry, classifier *Classifier, logger *slog.Logger) *Engine {
	if classifier == nil {
		classifier = NewDefaultClassifier()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:        cfg,
		registry:   registry,
		classifier: classifier,
		cache:      NewTTLCache(cfg.CacheSize, cfg.CacheTTL),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetOnResult registers the single consumer of completion results. The
// callback runs on the engine's goroutine after the staleness check has
// passed; the consumer must still guard its own state.
func (e *Engine) SetOnResult(fn func(Result)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onResult = fn
}

// Registry returns the source registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// UpdateConfig replaces the tunables. The cache is rebuilt when its
// sizing changed.
func (e *Engine) UpdateConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cfg.CacheSize != e.cfg.CacheSize || cfg.CacheTTL != e.cfg.CacheTTL {
		e.cache = NewTTLCache(cfg.CacheSize, cfg.CacheTTL)
	}
	e.cfg = cfg
}

// Request schedules a completion computation for the snapshot after the
// debounce delay, cancelling any still-pending scheduled computation.
func (e *Engine) Request(req Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	seq := e.seq
	e.latest = req
	e.active = true

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.cfg.Debounce, func() {
		e.run(req, seq)
	})
}

// Cancel synchronously stops any pending debounce timer, invalidates any
// in-flight computation, and aborts outstanding source queries. Safe to
// call repeatedly.
func (e *Engine) Cancel() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.active = false
	e.seq++
	cancel := e.cancel
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.mu.Unlock()

	cancel()
}

// InvalidateCache drops all cached result sets.
func (e *Engine) InvalidateCache() {
	e.mu.Lock()
	cache := e.cache
	e.mu.Unlock()

	cache.InvalidateAll()
}

// run executes the pipeline for one scheduled request. The cache field
// is replaced by UpdateConfig, so run works against a copy taken under
// the lock.
func (e *Engine) run(req Request, seq uint64) {
	e.mu.Lock()
	if !e.isLatestLocked(req, seq) {
		e.mu.Unlock()
		return
	}
	ctx := e.ctx
	cfg := e.cfg
	cache := e.cache
	e.mu.Unlock()

	if items, ok := cache.Get(req.Mode, req.Text); ok {
		e.deliver(req, seq, items)
		return
	}

	intent := e.classifier.Classify(req.Mode, req.Text)
	query := QueryFor(req.Mode, req.Text)

	raw := e.registry.Collect(ctx, intent, query, cfg.SourceTimeout, e.logger)
	if !e.isLatest(req, seq) {
		return
	}

	ranked := Rank(raw, query, cfg.FuzzyEnabled)
	cache.Set(req.Mode, req.Text, ranked)
	e.deliver(req, seq, ranked)
}

// deliver applies the cap and hands the result to the consumer, unless
// the request went stale while the computation ran.
func (e *Engine) deliver(req Request, seq uint64, items []Item) {
	e.mu.Lock()
	if !e.isLatestLocked(req, seq) {
		e.mu.Unlock()
		return
	}
	capped, dropped := Cap(items, e.cfg.MaxItems)
	fn := e.onResult
	e.mu.Unlock()

	if fn != nil {
		fn(Result{Request: req, Items: capped, Dropped: dropped})
	}
}

// isLatest reports whether the computation still corresponds to the
// engine's newest request.
func (e *Engine) isLatest(req Request, seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isLatestLocked(req, seq)
}

// isLatestLocked must be called with the lock held.
func (e *Engine) isLatestLocked(req Request, seq uint64) bool {
	return e.active &&
		seq == e.seq &&
		e.latest.Text == req.Text &&
		e.latest.Generation == req.Generation
}
