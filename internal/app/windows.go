package app

import (
	"fmt"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/gobuddy/surface"
)

// windowFactory creates the transient surfaces as Wails webview windows.
type windowFactory struct {
	app *application.App
}

func (f windowFactory) Create(opts surface.Options) (w surface.Window, err error) {
	if f.app == nil {
		return nil, fmt.Errorf("create window %s: no application", opts.Name)
	}
	err = guard("create", func() {
		ww := f.app.Window.NewWithOptions(application.WebviewWindowOptions{
			Name:           opts.Name,
			Title:          opts.Title,
			URL:            opts.URL,
			Width:          int(opts.Size.W),
			Height:         int(opts.Size.H),
			Frameless:      true,
			AlwaysOnTop:    true,
			DisableResize:  true,
			Hidden:         true,
			BackgroundType: application.BackgroundTypeTransparent,
			Windows: application.WindowsWindow{
				HiddenOnTaskbar: true,
			},
		})
		w = webviewWindow{w: ww}
	})
	if err != nil {
		return nil, fmt.Errorf("create window %s: %w", opts.Name, err)
	}
	return w, nil
}

// webviewWindow adapts a Wails window to surface.Window. Wails panics on
// some calls against a window that is being destroyed; those become errors.
type webviewWindow struct {
	w *application.WebviewWindow
}

func (ww webviewWindow) Show() error {
	return guard("show", func() { ww.w.Show() })
}

func (ww webviewWindow) Hide() error {
	return guard("hide", func() { ww.w.Hide() })
}

func (ww webviewWindow) SetPosition(x, y int) error {
	return guard("set position", func() { ww.w.SetPosition(x, y) })
}

func (ww webviewWindow) SetSize(width, height int) error {
	return guard("set size", func() { ww.w.SetSize(width, height) })
}

func (ww webviewWindow) SetAlwaysOnTop(onTop bool) error {
	return guard("set always on top", func() { ww.w.SetAlwaysOnTop(onTop) })
}

func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", op, r)
		}
	}()
	fn()
	return nil
}
