//go:build !darwin && !windows

package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	hook "github.com/robotn/gohook"
)

const subscriptionHint = "the X server must provide the RECORD extension; Wayland sessions need XWayland"

// hookSource listens through libuiohook, which records X input without
// grabbing the pointer, so other clients keep receiving every click.
type hookSource struct {
	opts SourceOptions
}

// NewSource returns the listener for this platform.
func NewSource(opts SourceOptions) Source {
	return &hookSource{opts: opts.withDefaults()}
}

func (s *hookSource) Listen(ctx context.Context, ready func(), handle func(ClickEvent)) error {
	if err := s.probeDisplay(); err != nil {
		return err
	}

	evChan := hook.Start()
	defer hook.End()

	return s.pump(ctx, evChan, ready, handle)
}

// pump translates gohook events until ctx is cancelled or the hook stops.
// ready is called once libuiohook reports HookEnabled; if that does not
// happen within StartTimeout the hook never got installed.
//
// gohook drains libuiohook's queue on a 50ms poll and stamps events when they
// are drained, so Time here is quantized to that poll.
func (s *hookSource) pump(ctx context.Context, events <-chan hook.Event, ready func(), handle func(ClickEvent)) error {
	enabled := false
	enable := func() {
		if !enabled {
			enabled = true
			s.opts.Logger.Debug("hook enabled")
			ready()
		}
	}

	startup := time.NewTimer(s.opts.StartTimeout)
	defer startup.Stop()

	for {
		// Only armed until the hook confirms it is running
		var timeout <-chan time.Time
		if !enabled {
			timeout = startup.C
		}

		select {
		case <-ctx.Done():
			return nil

		case <-timeout:
			return fmt.Errorf("libuiohook did not start within %v: %w", s.opts.StartTimeout, ErrSubscription)

		case e, ok := <-events:
			if !ok {
				if !enabled {
					return fmt.Errorf("libuiohook exited during start-up: %w", ErrSubscription)
				}
				return nil
			}
			switch e.Kind {
			case hook.HookEnabled:
				enable()
			case hook.HookDisabled:
				if !enabled {
					return fmt.Errorf("libuiohook stopped during start-up: %w", ErrSubscription)
				}
				return nil
			// libuiohook's "pressed" event; hook.MouseDown fires on release
			case hook.MouseHold:
				// Input flowing is proof enough that the hook is up
				enable()
				button, ok := hookButton(e.Button)
				if !ok {
					continue
				}
				handle(ClickEvent{
					X:      int(e.X),
					Y:      int(e.Y),
					Time:   s.opts.Clock(),
					Button: button,
				})
			default:
				enable()
			}
		}
	}
}

// probeDisplay makes sure the X server is reachable and can record input
// before the hook thread is started.
func (s *hookSource) probeDisplay() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("open X display: %v: %w", err, ErrDisplay)
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	s.opts.Logger.Info("X display opened",
		"width", screen.WidthInPixels,
		"height", screen.HeightInPixels)

	const record = "RECORD"
	reply, err := xproto.QueryExtension(conn, uint16(len(record)), record).Reply()
	if err != nil {
		return fmt.Errorf("query %s extension: %v: %w", record, err, ErrSubscription)
	}
	if !reply.Present {
		return fmt.Errorf("X server has no %s extension: %w", record, ErrSubscription)
	}
	return nil
}

func hookButton(b uint16) (Button, bool) {
	switch b {
	case hook.MouseMap["left"]:
		return ButtonLeft, true
	case hook.MouseMap["right"]:
		return ButtonRight, true
	default:
		return 0, false
	}
}
