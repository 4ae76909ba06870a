package tracking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vedantwpatil/tile-tracker/internal/grid"
	"github.com/vedantwpatil/tile-tracker/internal/report"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T, out io.Writer) *Tracker {
	t.Helper()
	tr, err := New(Options{
		Overlay:  grid.DefaultBounds(),
		Layout:   grid.DefaultLayout(),
		Debounce: testDebounce,
		Emitter:  report.NewEmitter(out),
		Logger:   newTestLogger(),
	})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	return tr
}

// replay delivers events in order and then returns, like a hook that was unhooked.
func replay(events ...ClickEvent) Source {
	return SourceFunc(func(ctx context.Context, ready func(), handle func(ClickEvent)) error {
		ready()
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return nil
			}
			handle(ev)
		}
		return nil
	})
}

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Layout: grid.DefaultLayout()}); err == nil {
		t.Fatalf("expected error without emitter")
	}
	if _, err := New(Options{Emitter: report.NewEmitter(io.Discard)}); err == nil {
		t.Fatalf("expected error for empty grid")
	}
}

func TestRunReportsTiles(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(t, &buf)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := replay(
		click(0, 0, base),
		click(599, 439, base.Add(time.Second)),
		click(40, 40, base.Add(2*time.Second)),
		click(600, 200, base.Add(3*time.Second)),
	)

	if err := tr.Run(context.Background(), src); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"TILE_CLICKED 0 0 0 0",
		"TILE_CLICKED 14 10 599 439",
		"TILE_CLICKED 1 1 40 40",
	}
	got := lines(&buf)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %q, want %q", got, want)
	}

	stats := tr.Stats()
	if stats.Received != 4 || stats.Reported != 3 || stats.Outside != 1 || stats.Debounced != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if tr.Phase() != PhaseTerminated {
		t.Fatalf("expected terminated phase, got %v", tr.Phase())
	}
}

func TestRunCollapsesDuplicateDeliveries(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(t, &buf)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := tr.Run(context.Background(), replay(
		click(100, 100, base),
		click(102, 101, base.Add(50*time.Millisecond)),
	)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := lines(&buf); len(got) != 1 || got[0] != "TILE_CLICKED 2 2 100 100" {
		t.Fatalf("expected one report, got %q", got)
	}
}

func TestRunKeepsDistinctNearbyClicks(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(t, &buf)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := tr.Run(context.Background(), replay(
		click(100, 100, base),
		click(110, 100, base.Add(10*time.Millisecond)),
	)); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"TILE_CLICKED 2 2 100 100", "TILE_CLICKED 2 2 110 100"}
	if got := lines(&buf); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOutsideClickStillUpdatesDebounceState(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(t, &buf)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if _, ok := tr.Handle(click(601, 10, base)); ok {
		t.Fatalf("outside click must not be reported")
	}
	// A duplicate of the outside click, now landing on the overlay edge
	if _, ok := tr.Handle(click(598, 10, base.Add(20*time.Millisecond))); ok {
		t.Fatalf("duplicate of an accepted outside click must be debounced")
	}
	if stats := tr.Stats(); stats.Outside != 1 || stats.Debounced != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRunReturnsSubscriptionFailure(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracker(t, &buf)
	src := SourceFunc(func(ctx context.Context, ready func(), handle func(ClickEvent)) error {
		return fmt.Errorf("tap create: %w", ErrSubscription)
	})

	err := tr.Run(context.Background(), src)
	if !errors.Is(err, ErrSubscription) {
		t.Fatalf("expected ErrSubscription, got %v", err)
	}
	if tr.Phase() != PhaseTerminated {
		t.Fatalf("expected terminated phase, got %v", tr.Phase())
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if Remediation(err) == "" {
		t.Fatalf("expected remediation hint for %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	tr := newTestTracker(t, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())

	phases := make(chan Phase, 1)
	src := SourceFunc(func(ctx context.Context, ready func(), handle func(ClickEvent)) error {
		ready()
		phases <- tr.Phase()
		<-ctx.Done()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx, src) }()

	if p := <-phases; p != PhaseRunning {
		t.Fatalf("expected running phase while listening, got %v", p)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("tracker did not stop after cancel")
	}
}

func TestRunRejectsNilSource(t *testing.T) {
	tr := newTestTracker(t, io.Discard)
	if err := tr.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseRunning.String() != "running" || Phase(42).String() != "phase(42)" {
		t.Fatalf("unexpected phase names")
	}
	if ButtonRight.String() != "right" || Button(9).String() != "unknown" {
		t.Fatalf("unexpected button names")
	}
}

func TestRemediation(t *testing.T) {
	if Remediation(fmt.Errorf("open: %w", ErrDisplay)) == "" {
		t.Fatalf("expected display hint")
	}
	if Remediation(errors.New("other")) != "" {
		t.Fatalf("unexpected hint for unrelated error")
	}
}
