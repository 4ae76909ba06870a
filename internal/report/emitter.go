// Package report writes accepted tile hits in the line format read by the
// overlay orchestrator.
package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/vedantwpatil/tile-tracker/internal/grid"
)

// Prefix starts every click report line.
const Prefix = "TILE_CLICKED"

// Emitter serializes tile hits onto a shared stream. Native hooks may call in
// from threads other than the one that started the tracker, so every line is
// written under a lock in a single Write.
type Emitter struct {
	mu  sync.Mutex
	out io.Writer
}

type flusher interface {
	Flush() error
}

func NewEmitter(out io.Writer) *Emitter {
	return &Emitter{out: out}
}

// Emit writes "TILE_CLICKED <col> <row> <x> <y>\n" and flushes it.
func (e *Emitter) Emit(tile grid.Tile, x, y int) error {
	line := Format(tile, x, y)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := io.WriteString(e.out, line); err != nil {
		return fmt.Errorf("write click report: %w", err)
	}
	// Buffered writers would hold the line back from the reader
	if f, ok := e.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush click report: %w", err)
		}
	}
	return nil
}

// Format renders a single report line including the trailing newline.
func Format(tile grid.Tile, x, y int) string {
	buf := make([]byte, 0, 48)
	buf = append(buf, Prefix...)
	for _, v := range [...]int{tile.Col, tile.Row, x, y} {
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	buf = append(buf, '\n')
	return string(buf)
}
