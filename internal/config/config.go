package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/vedantwpatil/tile-tracker/internal/grid"
)

// Debounce thresholds. Two button-down deliveries closer than both of these
// are the same physical click.
const (
	DebounceRadiusPx = 5
	DebounceWindowMs = 100
)

// BoundsArgs is the number of positional arguments that describe the overlay.
const BoundsArgs = 4

type Config struct {
	Overlay  grid.Bounds
	Grid     grid.Layout
	Debounce struct {
		Radius float64
		Window time.Duration
	}
	Hook struct {
		// How long the hook has to report itself enabled before start-up fails
		StartTimeout time.Duration
	}
	Logging struct {
		Level slog.Level
	}
}

func NewConfig() *Config {
	cfg := &Config{
		Overlay: grid.DefaultBounds(),
		Grid:    grid.DefaultLayout(),
	}
	cfg.Debounce.Radius = DebounceRadiusPx
	cfg.Debounce.Window = DebounceWindowMs * time.Millisecond
	cfg.Hook.StartTimeout = 3 * time.Second
	cfg.Logging.Level = slog.LevelInfo
	return cfg
}

// ParseBounds reads "x y width height" from args. With fewer than four
// arguments the default overlay is returned untouched; extra arguments are
// ignored. Width and height must be positive and the overlay's far edges must
// fit in an int.
func ParseBounds(args []string) (grid.Bounds, error) {
	if len(args) < BoundsArgs {
		return grid.DefaultBounds(), nil
	}

	names := [BoundsArgs]string{"overlayX", "overlayY", "overlayWidth", "overlayHeight"}
	var values [BoundsArgs]int
	for i := range values {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return grid.Bounds{}, fmt.Errorf("invalid %s %q: %w", names[i], args[i], err)
		}
		values[i] = v
	}

	b := grid.Bounds{
		X:      values[0],
		Y:      values[1],
		Width:  values[2],
		Height: values[3],
	}
	if err := validateBounds(b); err != nil {
		return grid.Bounds{}, err
	}
	return b, nil
}

var ErrInvalidBounds = errors.New("invalid overlay bounds")

func validateBounds(b grid.Bounds) error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidBounds, b.Width, b.Height)
	}
	if b.X > math.MaxInt-b.Width || b.Y > math.MaxInt-b.Height {
		return fmt.Errorf("%w: %s extends past the coordinate range", ErrInvalidBounds, b)
	}
	return nil
}

// Load builds the configuration for a tracker process from its positional
// arguments.
func Load(args []string) (*Config, error) {
	cfg := NewConfig()
	bounds, err := ParseBounds(args)
	if err != nil {
		return nil, err
	}
	cfg.Overlay = bounds
	return cfg, nil
}
