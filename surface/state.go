package surface

import (
	"sync/atomic"

	"go.aimuz.me/gobuddy/geometry"
)

// DefaultAnchor stands in for the overlay position before one has been
// published.
var DefaultAnchor = geometry.Point{X: 200, Y: 200}

// State is the geometry and visibility of both surfaces, shared between the
// input listener and the UI task queue.
//
// Every field is synchronized on its own; no update spans two fields.
// Readers must tolerate combinations such as a visible panel with stale
// bounds, and treat visible=false as the only authoritative signal.
type State struct {
	overlayVisible  atomic.Bool
	overlayPosition atomic.Pointer[geometry.Point]

	panelVisible atomic.Bool
	panelBounds  atomic.Pointer[geometry.Rect]
}

// OverlayVisible reports whether the overlay is believed to be on screen.
func (s *State) OverlayVisible() bool {
	return s.overlayVisible.Load()
}

// SetOverlayVisible records overlay visibility ahead of the UI task that
// will confirm it.
func (s *State) SetOverlayVisible(v bool) {
	s.overlayVisible.Store(v)
}

// OverlayPosition returns the last published overlay origin.
func (s *State) OverlayPosition() (geometry.Point, bool) {
	p := s.overlayPosition.Load()
	if p == nil {
		return geometry.Point{}, false
	}
	return *p, true
}

// OverlayAnchor returns the overlay origin, or DefaultAnchor if none has
// been published yet.
func (s *State) OverlayAnchor() geometry.Point {
	if p, ok := s.OverlayPosition(); ok {
		return p
	}
	return DefaultAnchor
}

// PanelVisible reports whether the floating panel is believed to be on
// screen.
func (s *State) PanelVisible() bool {
	return s.panelVisible.Load()
}

// PanelBounds returns the rectangle the panel was last shown at.
func (s *State) PanelBounds() (geometry.Rect, bool) {
	r := s.panelBounds.Load()
	if r == nil {
		return geometry.Rect{}, false
	}
	return *r, true
}

func (s *State) publishOverlay(pos geometry.Point) {
	s.overlayPosition.Store(&pos)
	s.overlayVisible.Store(true)
}

func (s *State) publishPanel(bounds geometry.Rect) {
	s.panelBounds.Store(&bounds)
	s.panelVisible.Store(true)
}

func (s *State) clearPanel() {
	s.panelVisible.Store(false)
	s.panelBounds.Store(nil)
}
