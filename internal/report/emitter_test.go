package report

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/vedantwpatil/tile-tracker/internal/grid"
)

func TestFormat(t *testing.T) {
	got := Format(grid.Tile{Col: 14, Row: 10}, 599, 439)
	if got != "TILE_CLICKED 14 10 599 439\n" {
		t.Fatalf("unexpected line %q", got)
	}
	got = Format(grid.Tile{}, -5, 0)
	if got != "TILE_CLICKED 0 0 -5 0\n" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestEmitFlushesBufferedWriter(t *testing.T) {
	var sink bytes.Buffer
	w := bufio.NewWriter(&sink)
	e := NewEmitter(w)

	if err := e.Emit(grid.Tile{Col: 1, Row: 1}, 40, 40); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if sink.String() != "TILE_CLICKED 1 1 40 40\n" {
		t.Fatalf("line not flushed to sink: %q", sink.String())
	}
}

func TestConcurrentEmitsNeverInterleave(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	const writers = 8
	const perWriter = 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := e.Emit(grid.Tile{Col: w, Row: i % 11}, w*100, i); err != nil {
					t.Errorf("emit: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("expected %d lines, got %d", writers*perWriter, len(lines))
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 5 || fields[0] != Prefix {
			t.Fatalf("malformed line %q", line)
		}
	}
}
