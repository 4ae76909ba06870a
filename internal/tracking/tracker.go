package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vedantwpatil/tile-tracker/internal/grid"
	"github.com/vedantwpatil/tile-tracker/internal/report"
)

// Phase is where the tracker is in its lifecycle.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSubscribed
	PhaseRunning
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseSubscribed:
		return "subscribed"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Stats counts what happened to delivered events.
type Stats struct {
	Received  int
	Debounced int
	Outside   int
	Reported  int
}

// Options wires a Tracker.
type Options struct {
	Overlay  grid.Bounds
	Layout   grid.Layout
	Debounce Debounce
	Emitter  *report.Emitter
	Logger   *slog.Logger
}

// Tracker runs the debounce, map, emit pipeline for every event a Source
// delivers.
type Tracker struct {
	overlay  grid.Bounds
	layout   grid.Layout
	debounce Debounce
	emitter  *report.Emitter
	log      *slog.Logger

	// mu serializes the pipeline. Hook callbacks may arrive on an OS thread
	// other than the one that called Run.
	mu    sync.Mutex
	state DebounceState
	phase Phase
	stats Stats
}

func New(opts Options) (*Tracker, error) {
	if opts.Emitter == nil {
		return nil, errors.New("tracker needs an emitter")
	}
	if opts.Layout.Cols <= 0 || opts.Layout.Rows <= 0 {
		return nil, fmt.Errorf("invalid grid %dx%d", opts.Layout.Cols, opts.Layout.Rows)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		overlay:  opts.Overlay,
		layout:   opts.Layout,
		debounce: opts.Debounce,
		emitter:  opts.Emitter,
		log:      logger,
	}, nil
}

// Run installs src and processes its events until ctx is cancelled or the
// source stops. Subscription failures are returned as-is.
func (t *Tracker) Run(ctx context.Context, src Source) error {
	if src == nil {
		return errors.New("no event source")
	}

	ready := func() {
		t.setPhase(PhaseSubscribed)
		t.log.Info("hook installed")
		t.setPhase(PhaseRunning)
		t.log.Info("monitoring for clicks...")
	}

	err := src.Listen(ctx, ready, func(ev ClickEvent) {
		t.Handle(ev)
	})
	t.setPhase(PhaseTerminated)

	if err != nil {
		return err
	}
	stats := t.Stats()
	t.log.Info("hook process stopped",
		"received", stats.Received,
		"reported", stats.Reported,
		"debounced", stats.Debounced,
		"outside", stats.Outside)
	return nil
}

// Handle pushes one raw event through the pipeline. It returns the tile that
// was reported, or false when the event was dropped.
func (t *Tracker) Handle(ev ClickEvent) (grid.Tile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Received++

	next, ok := t.debounce.Accept(t.state, ev)
	if !ok {
		t.stats.Debounced++
		t.log.Debug("click dropped", "reason", "debounced", "x", ev.X, "y", ev.Y)
		return grid.Tile{}, false
	}
	t.state = next

	tile, ok := grid.Map(ev.X, ev.Y, t.overlay, t.layout)
	if !ok {
		t.stats.Outside++
		t.log.Debug("click dropped", "reason", "outside overlay", "x", ev.X, "y", ev.Y)
		return grid.Tile{}, false
	}

	if err := t.emitter.Emit(tile, ev.X, ev.Y); err != nil {
		t.log.Error("report click", "error", err)
		return tile, false
	}
	t.stats.Reported++
	t.log.Debug("click reported", "button", ev.Button.String(), "col", tile.Col, "row", tile.Row, "x", ev.X, "y", ev.Y)
	return tile, true
}

func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func (t *Tracker) setPhase(p Phase) {
	t.mu.Lock()
	prev := t.phase
	t.phase = p
	t.mu.Unlock()
	t.log.Debug("tracker phase", "from", prev.String(), "to", p.String())
}
