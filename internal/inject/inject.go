// Package inject synthesizes mouse input at absolute screen coordinates for
// the clicker command.
package inject

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Action is one of the injector's verbs.
type Action string

const (
	ActionClick      Action = "click"
	ActionMouseDown  Action = "mousedown"
	ActionMouseUp    Action = "mouseup"
	ActionRightClick Action = "rightclick"
	ActionDrag       Action = "drag"
)

// Actions lists every supported verb in usage order.
var Actions = []Action{ActionClick, ActionMouseDown, ActionMouseUp, ActionRightClick, ActionDrag}

const (
	ButtonLeft  = "left"
	ButtonRight = "right"
)

// PressGap separates the down and up halves of a click.
const PressGap = 10 * time.Millisecond

var (
	ErrUsage         = errors.New("not enough arguments")
	ErrUnknownAction = errors.New("unknown event type")
)

// Device performs the native input operations.
type Device interface {
	Move(x, y int)
	Press(button string)
	Release(button string)
	Sleep(d time.Duration)
}

// Command is one parsed injector invocation.
type Command struct {
	Action Action
	X      int
	Y      int
	Button string
}

// Parse reads "<event> <x> <y> [button]". Coordinates may be fractional and
// are rounded to the nearest pixel. Any button other than "right" is left.
func Parse(args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, ErrUsage
	}

	action := Action(args[0])
	if !knownAction(action) {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownAction, args[0])
	}

	x, err := parseCoord(args[1])
	if err != nil {
		return Command{}, fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := parseCoord(args[2])
	if err != nil {
		return Command{}, fmt.Errorf("invalid y %q: %w", args[2], err)
	}

	button := ButtonLeft
	if len(args) >= 4 && args[3] == ButtonRight {
		button = ButtonRight
	}

	return Command{Action: action, X: x, Y: y, Button: button}, nil
}

// Execute runs the command on dev and returns the status line to print.
func (c Command) Execute(dev Device) (string, error) {
	switch c.Action {
	case ActionClick:
		dev.Move(c.X, c.Y)
		dev.Press(c.Button)
		dev.Sleep(PressGap)
		dev.Release(c.Button)
		return fmt.Sprintf("%s click at %d, %d", c.Button, c.X, c.Y), nil
	case ActionMouseDown:
		dev.Move(c.X, c.Y)
		dev.Press(c.Button)
		return fmt.Sprintf("Mouse down (%s) at %d, %d", c.Button, c.X, c.Y), nil
	case ActionMouseUp:
		dev.Move(c.X, c.Y)
		dev.Release(c.Button)
		return fmt.Sprintf("Mouse up (%s) at %d, %d", c.Button, c.X, c.Y), nil
	case ActionRightClick:
		dev.Move(c.X, c.Y)
		dev.Press(ButtonRight)
		dev.Sleep(PressGap)
		dev.Release(ButtonRight)
		return fmt.Sprintf("Right click at %d, %d", c.X, c.Y), nil
	case ActionDrag:
		// The button is already held from an earlier mousedown
		dev.Move(c.X, c.Y)
		return fmt.Sprintf("Drag to %d, %d", c.X, c.Y), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, c.Action)
	}
}

// Usage returns the help text for prog.
func Usage(prog string) string {
	names := make([]string, len(Actions))
	for i, a := range Actions {
		names[i] = string(a)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s <event> <x> <y> [button]\n", prog)
	fmt.Fprintf(&b, "Events: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Button: %s (default) or %s\n", ButtonLeft, ButtonRight)
	return b.String()
}

func knownAction(a Action) bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

func parseCoord(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate must be finite")
	}
	return int(math.Round(v)), nil
}
