// Package display looks up the attached monitors so the tracker can warn
// when the overlay sits somewhere no click can land.
package display

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Active returns the bounds of every active display in global screen
// coordinates.
func Active() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	displays := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		displays = append(displays, screenshot.GetDisplayBounds(i))
	}
	return displays
}

// Covers reports whether every pixel of r is on one of the displays.
func Covers(displays []image.Rectangle, r image.Rectangle) bool {
	if r.Empty() {
		return false
	}
	// Walk r row band by row band; each band must be fully covered
	for y := r.Min.Y; y < r.Max.Y; {
		next := r.Max.Y
		if !rowCovered(displays, r.Min.X, r.Max.X, y) {
			return false
		}
		for _, d := range displays {
			if y >= d.Min.Y && y < d.Max.Y && d.Max.Y < next {
				next = d.Max.Y
			}
			if d.Min.Y > y && d.Min.Y < next {
				next = d.Min.Y
			}
		}
		y = next
	}
	return true
}

// rowCovered reports whether [minX, maxX) on row y is covered by displays.
func rowCovered(displays []image.Rectangle, minX, maxX, y int) bool {
	x := minX
	for x < maxX {
		advanced := false
		for _, d := range displays {
			if y >= d.Min.Y && y < d.Max.Y && x >= d.Min.X && x < d.Max.X {
				x = d.Max.X
				advanced = true
			}
		}
		if !advanced {
			return false
		}
	}
	return true
}
