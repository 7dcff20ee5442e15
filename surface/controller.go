// Package surface shows, hides and positions the overlay button and the
// floating panel, and publishes their geometry for hit-testing.
package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.aimuz.me/gobuddy/display"
	"go.aimuz.me/gobuddy/geometry"
)

// ErrSurfaceOperation wraps any failed window call.
var ErrSurfaceOperation = errors.New("surface operation failed")

// OverlaySize is the fixed edge length of the overlay button.
const OverlaySize = 32

// DefaultPanelSize is used when no panel size is configured.
var DefaultPanelSize = geometry.Size{W: 120, H: 200}

// Overlay placement relative to the drag release point.
const (
	overlayOffsetRight = 10
	overlayOffsetLeft  = -50
	overlayOffsetY     = 10
)

// Direction is the horizontal direction of a drag.
type Direction int

const (
	DirectionRight Direction = iota
	DirectionLeft
)

func (d Direction) String() string {
	if d == DirectionLeft {
		return "left"
	}
	return "right"
}

// Window is a platform window. Every call may fail, for instance when the
// window was destroyed underneath us.
type Window interface {
	Show() error
	Hide() error
	SetPosition(x, y int) error
	SetSize(w, h int) error
	SetAlwaysOnTop(onTop bool) error
}

// Options describes a window to materialize. Windows are always created
// hidden, frameless, always-on-top, non-resizable and hidden from the
// taskbar.
type Options struct {
	Name  string
	Title string
	URL   string
	Size  geometry.Size
}

// Factory creates windows on demand.
type Factory interface {
	Create(opts Options) (Window, error)
}

const (
	overlayName = "overlay"
	panelName   = "floating_panel"
)

// Controller owns both surfaces. All methods are idempotent and safe to call
// before the windows exist.
type Controller struct {
	state     *State
	factory   Factory
	metrics   display.Metrics
	panelSize geometry.Size

	mu      sync.Mutex // guards window creation
	overlay Window
	panel   Window
}

// NewController creates a controller. A zero panelSize selects
// DefaultPanelSize.
func NewController(factory Factory, metrics display.Metrics, panelSize geometry.Size) *Controller {
	if panelSize.W <= 0 || panelSize.H <= 0 {
		panelSize = DefaultPanelSize
	}
	return &Controller{
		state:     &State{},
		factory:   factory,
		metrics:   metrics,
		panelSize: panelSize,
	}
}

// State returns the shared geometry read by the gesture machine.
func (c *Controller) State() *State {
	return c.state
}

// PanelSize returns the configured floating panel size.
func (c *Controller) PanelSize() geometry.Size {
	return c.panelSize
}

// EnsureOverlay materializes the overlay window if needed.
func (c *Controller) EnsureOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = c.ensure(c.overlay, Options{
		Name:  overlayName,
		Title: "Overlay",
		URL:   "/overlay.html",
		Size:  geometry.Size{W: OverlaySize, H: OverlaySize},
	})
}

// EnsurePanel materializes the floating panel window if needed.
func (c *Controller) EnsurePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panel = c.ensure(c.panel, Options{
		Name:  panelName,
		Title: "GoBuddy Quick Panel",
		URL:   "/floating-window.html",
		Size:  c.panelSize,
	})
}

func (c *Controller) ensure(w Window, opts Options) Window {
	if w != nil || c.factory == nil {
		return w
	}
	w, err := c.factory.Create(opts)
	if err != nil {
		slog.Error("create surface", "surface", opts.Name, "error", err)
		return nil
	}
	slog.Debug("surface created", "surface", opts.Name)
	return w
}

func (c *Controller) overlayWindow() Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

func (c *Controller) panelWindow() Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// OverlayOrigin places the overlay next to a drag release point: to the
// right and below for rightward drags, to the left for leftward ones, then
// clamped into the screen.
func OverlayOrigin(at geometry.Point, dir Direction, screen geometry.Size) geometry.Point {
	dx := float64(overlayOffsetRight)
	if dir == DirectionLeft {
		dx = overlayOffsetLeft
	}
	size := geometry.Size{W: OverlaySize, H: OverlaySize}
	return geometry.ClampToScreen(at.Add(dx, overlayOffsetY), size, screen)
}

// PanelOrigin centers a panel horizontally on the overlay anchored at
// anchor, with its top edge at the anchor, clamped into the screen.
func PanelOrigin(anchor geometry.Point, panel, screen geometry.Size) geometry.Point {
	center := anchor.X + OverlaySize/2
	return geometry.ClampToScreen(geometry.Point{X: center - panel.W/2, Y: anchor.Y}, panel, screen)
}

// ShowOverlayAt shows the overlay near a drag release point and publishes
// its position. The position is published even if the window calls fail.
func (c *Controller) ShowOverlayAt(at geometry.Point, dir Direction) geometry.Point {
	c.EnsureOverlay()
	pos := OverlayOrigin(at, dir, display.Size(c.metrics))

	if w := c.overlayWindow(); w != nil {
		x, y := pos.Round()
		c.call(overlayName, "set size", func() error { return w.SetSize(OverlaySize, OverlaySize) })
		c.call(overlayName, "set position", func() error { return w.SetPosition(x, y) })
		c.call(overlayName, "show", w.Show)
	}

	c.state.publishOverlay(pos)
	return pos
}

// ShowPanelNear shows the floating panel below the overlay anchored at
// anchor and publishes its bounds. The returned error reports a failed show;
// geometry is published regardless.
func (c *Controller) ShowPanelNear(anchor geometry.Point) (geometry.Rect, error) {
	c.EnsurePanel()
	origin := PanelOrigin(anchor, c.panelSize, display.Size(c.metrics))
	bounds := geometry.RectAt(origin, c.panelSize)

	var err error
	if w := c.panelWindow(); w != nil {
		x, y := origin.Round()
		c.call(panelName, "set position", func() error { return w.SetPosition(x, y) })
		c.call(panelName, "set size", func() error {
			return w.SetSize(int(c.panelSize.W+0.5), int(c.panelSize.H+0.5))
		})
		c.call(panelName, "set always on top", func() error { return w.SetAlwaysOnTop(true) })
		err = c.call(panelName, "show", w.Show)
	}

	c.state.publishPanel(bounds)
	return bounds, err
}

// HideOverlay hides the overlay if it exists and marks it invisible.
func (c *Controller) HideOverlay() error {
	var err error
	if w := c.overlayWindow(); w != nil {
		err = c.call(overlayName, "hide", w.Hide)
	}
	c.state.SetOverlayVisible(false)
	return err
}

// HidePanel hides the floating panel if it exists, marks it invisible and
// drops its bounds.
func (c *Controller) HidePanel() error {
	var err error
	if w := c.panelWindow(); w != nil {
		err = c.call(panelName, "hide", w.Hide)
	}
	c.state.clearPanel()
	return err
}

// call runs one window operation, converting errors and panics into a
// logged ErrSurfaceOperation.
func (c *Controller) call(surface, op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s %s: panic: %v", ErrSurfaceOperation, surface, op, r)
		}
		if err != nil {
			slog.Warn("surface call failed", "surface", surface, "op", op, "error", err)
		}
	}()
	if e := fn(); e != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrSurfaceOperation, surface, op, e)
	}
	return nil
}
