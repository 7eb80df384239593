// Package main is a terminal demo host for the cmdcon console engine.
// It renders a small scratch buffer and wires the console to it: ":"
// opens command mode, "/" and "?" open search, "=" opens expression
// mode.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/cmdcon/internal/config"
	"github.com/dshills/cmdcon/internal/console"
	"github.com/dshills/cmdcon/internal/console/complete"
	"github.com/dshills/cmdcon/internal/console/dispatch"
	"github.com/dshills/cmdcon/internal/console/expr"
	"github.com/dshills/cmdcon/internal/console/history"
	"github.com/dshills/cmdcon/internal/console/sources"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to configuration file (.toml, .yaml)")
	flag.StringVar(&configPath, "c", "", "path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("cmdcon %s (%s)\n", version, commit)
		return 0
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	store, closeStore, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeStore()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	app := newApp(screen, cfg, store, logger)
	defer app.shutdown()

	if configPath != "" {
		watcher, werr := config.Watch(configPath, app.applyConfig, logger)
		if werr != nil {
			logger.Warn("config watch disabled", "error", werr)
		} else {
			defer watcher.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		app.requestQuit()
	}()

	app.loop()
	return 0
}

// openHistory selects the persistent store when a path is configured,
// the in-memory store otherwise.
func openHistory(cfg config.Config) (history.Store, func(), error) {
	if cfg.History.Path == "" {
		return history.NewMemoryStore(cfg.History.MaxEntries), func() {}, nil
	}
	store, err := history.OpenSQLite(cfg.History.Path, cfg.History.MaxEntries)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// newApp wires the console stack over the demo editor.
func newApp(screen tcell.Screen, cfg config.Config, store history.Store, logger *slog.Logger) *app {
	a := &app{
		screen: screen,
		editor: newEditor(),
		logger: logger,
	}
	a.evaluator = expr.NewEvaluator(cfg.ExpressionTimeout())

	registry := complete.NewRegistry()
	cwd, err := os.Getwd()
	if err == nil {
		registry.Register(complete.IntentFile, sources.NewFileSource(cwd))
	}
	registry.Register(complete.IntentBuffer, sources.NewBufferSource(a.editor.buffers))
	registry.SetFallback(sources.NewMulti("generic",
		sources.NewCommandSource(nil),
		sources.NewHistorySource(store),
	))

	a.engine = complete.New(cfg.CompleteConfig(), registry, nil, logger)
	dispatcher := dispatch.New(&hostServices{app: a}, logger)
	a.ctrl = console.NewController(a.engine, dispatcher, store, console.RendererFunc(a.renderConsole), logger,
		console.WithUndo(cfg.Undo.Capacity, cfg.UndoGroupWindow()))
	return a
}
