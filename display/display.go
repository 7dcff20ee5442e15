// Package display reports primary display metrics.
package display

import (
	"errors"
	"log/slog"

	"github.com/kbinani/screenshot"

	"go.aimuz.me/gobuddy/geometry"
)

// Fallback is used when the primary display cannot be queried.
var Fallback = geometry.Size{W: 1920, H: 1080}

// ErrNoDisplay is returned when no active display is found.
var ErrNoDisplay = errors.New("no active displays found")

// Metrics reports the size of the primary display.
type Metrics interface {
	PrimarySize() (geometry.Size, error)
}

// Screen queries the operating system through kbinani/screenshot.
type Screen struct{}

// PrimarySize returns the bounds of display 0.
func (Screen) PrimarySize() (geometry.Size, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return geometry.Size{}, ErrNoDisplay
	}
	b := screenshot.GetDisplayBounds(0)
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return geometry.Size{}, ErrNoDisplay
	}
	return geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}, nil
}

// Fixed always reports the same size. Useful for tests and headless runs.
type Fixed geometry.Size

// PrimarySize implements Metrics.
func (f Fixed) PrimarySize() (geometry.Size, error) {
	return geometry.Size(f), nil
}

// Size returns the primary display size from m, or Fallback if m is nil or
// fails.
func Size(m Metrics) geometry.Size {
	if m == nil {
		return Fallback
	}
	size, err := m.PrimarySize()
	if err != nil {
		slog.Warn("query primary display, using fallback", "error", err,
			"width", Fallback.W, "height", Fallback.H)
		return Fallback
	}
	return size
}
