package gesture

import (
	"fmt"

	"go.aimuz.me/gobuddy/geometry"
	"go.aimuz.me/gobuddy/surface"
)

// IntentKind is a high-level surface command.
type IntentKind int

const (
	ShowOverlay IntentKind = iota + 1
	HideOverlay
	OpenFloatingPanel
	HideFloatingPanel
)

func (k IntentKind) String() string {
	switch k {
	case ShowOverlay:
		return "show-overlay"
	case HideOverlay:
		return "hide-overlay"
	case OpenFloatingPanel:
		return "open-floating-panel"
	case HideFloatingPanel:
		return "hide-floating-panel"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is emitted by the machine and executed on the UI task queue.
// At is the release point for ShowOverlay and the anchor for
// OpenFloatingPanel; Direction only applies to ShowOverlay.
type Intent struct {
	Kind      IntentKind
	At        geometry.Point
	Direction surface.Direction
}

func (i Intent) String() string {
	switch i.Kind {
	case ShowOverlay:
		return fmt.Sprintf("%s(%.0f,%.0f %s)", i.Kind, i.At.X, i.At.Y, i.Direction)
	case OpenFloatingPanel:
		return fmt.Sprintf("%s(%.0f,%.0f)", i.Kind, i.At.X, i.At.Y)
	default:
		return i.Kind.String()
	}
}
