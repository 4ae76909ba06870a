package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/vedantwpatil/tile-tracker/internal/config"
	"github.com/vedantwpatil/tile-tracker/internal/display"
	"github.com/vedantwpatil/tile-tracker/internal/logging"
	"github.com/vedantwpatil/tile-tracker/internal/report"
	"github.com/vedantwpatil/tile-tracker/internal/tracking"
)

type Application struct {
	config  *config.Config
	logger  *slog.Logger
	tracker *tracking.Tracker
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := logging.New(logging.Options{Level: cfg.Logging.Level}).
		With("session", uuid.NewString())

	tracker, err := tracking.New(tracking.Options{
		Overlay: cfg.Overlay,
		Layout:  cfg.Grid,
		Debounce: tracking.Debounce{
			Radius: cfg.Debounce.Radius,
			Window: cfg.Debounce.Window,
		},
		Emitter: report.NewEmitter(os.Stdout),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		config:  cfg,
		logger:  logger,
		tracker: tracker,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

func (app *Application) Run() error {
	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go app.handleSignals(sigChan)

	app.logger.Info("mouse tracker started", "overlay", app.config.Overlay.String(),
		"cols", app.config.Grid.Cols, "rows", app.config.Grid.Rows)
	app.checkDisplays()

	source := tracking.NewSource(tracking.SourceOptions{
		StartTimeout: app.config.Hook.StartTimeout,
		Logger:       app.logger,
	})
	return app.tracker.Run(app.ctx, source)
}

// checkDisplays warns when part of the overlay is off every monitor.
func (app *Application) checkDisplays() {
	displays := display.Active()
	for i, d := range displays {
		app.logger.Debug("display", "index", i, "bounds", d.String())
	}
	if len(displays) == 0 {
		app.logger.Warn("no active displays reported")
		return
	}
	if !display.Covers(displays, app.config.Overlay.Rect()) {
		app.logger.Warn("overlay is not fully on an attached display", "overlay", app.config.Overlay.String())
	}
}

func (app *Application) handleSignals(sigChan chan os.Signal) {
	select {
	case sig := <-sigChan:
		app.logger.Info("received signal, unhooking", "signal", sig.String())
		app.cancel()
	case <-app.ctx.Done():
	}
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		fmt.Fprintln(os.Stderr, "usage: tracker [overlayX overlayY overlayWidth overlayHeight]")
		os.Exit(1)
	}

	app, err := NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}
	defer app.cancel()

	if err := app.Run(); err != nil {
		app.logger.Error("tracker failed", "error", err)
		if hint := tracking.Remediation(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Failed to start mouse tracking: %v. Try: %s.\n", err, hint)
		}
		app.cancel()
		os.Exit(1)
	}
}
