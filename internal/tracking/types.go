// Package tracking observes global mouse button-down events and turns the
// ones that land on the overlay into tile reports.
package tracking

import (
	"context"
	"log/slog"
	"time"
)

// Button identifies which mouse button went down.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// ClickEvent is one button-down delivery from the platform hook. The same
// physical click can arrive more than once.
type ClickEvent struct {
	X      int
	Y      int
	Time   time.Time
	Button Button
}

// Source subscribes to the OS-wide mouse button-down stream without
// intercepting it. Listen installs the hook, calls ready once it is in place,
// then blocks delivering events to handle in arrival order until ctx is
// cancelled. Failing to install the hook returns an error wrapping
// ErrSubscription or ErrDisplay before ready is called.
type Source interface {
	Listen(ctx context.Context, ready func(), handle func(ClickEvent)) error
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(ctx context.Context, ready func(), handle func(ClickEvent)) error

// Listen calls the underlying function.
func (f SourceFunc) Listen(ctx context.Context, ready func(), handle func(ClickEvent)) error {
	return f(ctx, ready, handle)
}

// SourceOptions configures the platform source returned by NewSource.
type SourceOptions struct {
	// StartTimeout bounds how long to wait for the hook to confirm it is running
	StartTimeout time.Duration
	Logger       *slog.Logger
	Clock        func() time.Time
}

func (o SourceOptions) withDefaults() SourceOptions {
	if o.StartTimeout <= 0 {
		o.StartTimeout = 3 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
