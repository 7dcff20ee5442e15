// Package gesture classifies global input into drag, overlay-click and
// cancel gestures and turns them into surface intents.
package gesture

import (
	"go.aimuz.me/gobuddy/geometry"
	"go.aimuz.me/gobuddy/input"
	"go.aimuz.me/gobuddy/surface"
)

// DragThreshold is the distance the pointer must travel from the press
// point, strictly exceeded, before a press becomes a drag.
const DragThreshold = 5.0

// Phase is the drag tracking state.
type Phase int

const (
	Idle     Phase = iota // no button held
	Pressing              // left button down, not yet a drag
	Dragging              // left button down, moved past DragThreshold
)

func (p Phase) String() string {
	switch p {
	case Pressing:
		return "pressing"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// DragState is the pointer tracking state.
type DragState struct {
	Phase Phase
	Start geometry.Point
	Last  geometry.Point
}

// Pressed reports whether the left button is held.
func (d DragState) Pressed() bool { return d.Phase != Idle }

// HasMoved reports whether the current press has become a drag.
func (d DragState) HasMoved() bool { return d.Phase == Dragging }

// Surfaces is the published surface geometry the machine hit-tests against.
// *surface.State implements it.
type Surfaces interface {
	OverlayVisible() bool
	SetOverlayVisible(bool)
	OverlayPosition() (geometry.Point, bool)
	OverlayAnchor() geometry.Point
	PanelVisible() bool
	PanelBounds() (geometry.Rect, bool)
}

// Machine is the gesture state machine. It is confined to the listener
// goroutine and is not safe for concurrent use.
type Machine struct {
	surfaces Surfaces
	drag     DragState

	// overlayClick is set by a press inside the overlay and consumed by the
	// next release or key press.
	overlayClick bool
	// panelOpen records that the current press began while the panel was
	// shown; such a gesture never shows the overlay.
	panelOpen bool
}

// New creates a machine reading geometry from s.
func New(s Surfaces) *Machine {
	return &Machine{surfaces: s}
}

// State returns a copy of the drag tracking state.
func (m *Machine) State() DragState {
	return m.drag
}

// OverlayClickPending reports whether a press landed on the overlay and is
// waiting for its release.
func (m *Machine) OverlayClickPending() bool {
	return m.overlayClick
}

// Handle feeds one input event and returns the intents it produced, in the
// order they must run.
func (m *Machine) Handle(ev input.Event) []Intent {
	switch ev.Kind {
	case input.KindMove:
		m.Move(ev.Pos)
	case input.KindPress:
		if ev.Button == input.ButtonLeft {
			return m.Press()
		}
	case input.KindRelease:
		if ev.Button == input.ButtonLeft {
			return m.Release()
		}
	case input.KindKey:
		return m.KeyPress()
	}
	return nil
}

// Move records the pointer position and promotes a press to a drag once it
// travels past DragThreshold.
func (m *Machine) Move(p geometry.Point) {
	m.drag.Last = p
	if m.drag.Phase == Pressing && m.drag.Start.Distance(p) > DragThreshold {
		m.drag.Phase = Dragging
	}
}

// Press handles a left button press at the last known pointer position.
func (m *Machine) Press() []Intent {
	cursor := m.drag.Last
	var intents []Intent

	panelOpen := m.surfaces.PanelVisible()
	if panelOpen {
		if bounds, ok := m.surfaces.PanelBounds(); ok && bounds.Contains(cursor) {
			// The panel handles its own clicks.
			m.drag.Phase = Idle
			m.panelOpen = false
			return nil
		}
		intents = append(intents, Intent{Kind: HideFloatingPanel})
	}

	if m.surfaces.OverlayVisible() {
		if m.insideOverlay(cursor) {
			m.overlayClick = true
		} else {
			m.surfaces.SetOverlayVisible(false)
			intents = append(intents, Intent{Kind: HideOverlay})
		}
	}

	if m.drag.Phase == Idle {
		m.drag.Phase = Pressing
		m.drag.Start = cursor
		m.panelOpen = panelOpen
	} else if panelOpen {
		m.panelOpen = true
	}
	return intents
}

// Release handles a left button release: it completes an overlay click,
// finishes a drag by showing the overlay, or does nothing.
func (m *Machine) Release() []Intent {
	drag := m.drag
	panelOpen := m.panelOpen
	m.drag.Phase = Idle
	m.panelOpen = false

	if m.overlayClick {
		m.overlayClick = false
		return []Intent{
			{Kind: OpenFloatingPanel, At: m.surfaces.OverlayAnchor()},
			{Kind: HideOverlay},
		}
	}

	if drag.Phase != Dragging || panelOpen {
		return nil
	}
	if m.surfaces.OverlayVisible() || m.surfaces.PanelVisible() {
		return nil
	}

	m.surfaces.SetOverlayVisible(true)
	return []Intent{{
		Kind:      ShowOverlay,
		At:        drag.Last,
		Direction: directionOf(drag.Start, drag.Last),
	}}
}

// KeyPress cancels everything: any key closes both surfaces. Drag tracking
// is left alone.
func (m *Machine) KeyPress() []Intent {
	m.overlayClick = false
	return []Intent{{Kind: HideOverlay}, {Kind: HideFloatingPanel}}
}

func (m *Machine) insideOverlay(p geometry.Point) bool {
	pos, ok := m.surfaces.OverlayPosition()
	if !ok {
		return false
	}
	return geometry.RectAt(pos, geometry.Size{W: surface.OverlaySize, H: surface.OverlaySize}).Contains(p)
}

func directionOf(start, end geometry.Point) surface.Direction {
	if end.X < start.X {
		return surface.DirectionLeft
	}
	return surface.DirectionRight
}
