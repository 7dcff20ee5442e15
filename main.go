package main

import (
	"embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.aimuz.me/gobuddy/config"
	"go.aimuz.me/gobuddy/internal/app"
	"go.aimuz.me/gobuddy/logutil"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logutil.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using info\n", err)
	}
	logs, err := logutil.Setup(level, cfg.LogFile)
	if err != nil {
		slog.Error("setup file logging", "error", err)
	}
	defer logs.Close()

	slog.Info("starting app", "version", version, "commit", commit, "date", date,
		"state", cfg.StatePath(), "env", cfg.EnvPath)
	appService := app.New(version, cfg)

	a := application.New(application.Options{
		Name:        "GoBuddy",
		Description: "Drag-to-summon prompt presets",
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// The overlay and panel come and go; the tray keeps the app alive.
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// Settings and preset editor
	mainWindow := a.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:   "main",
		Title:  "GoBuddy",
		Width:  960,
		Height: 680,
		URL:    "/",
		Mac: application.MacWindow{
			TitleBar:                application.MacTitleBarHiddenInsetUnified,
			InvisibleTitleBarHeight: 38,
		},
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	// Wires the store and surfaces and starts the global input listener.
	appService.Init(a)

	systemTray := a.SystemTray.New()
	systemTray.SetLabel("GoBuddy")

	trayMenu := a.NewMenu()
	trayMenu.Add("Show Window").OnClick(func(ctx *application.Context) {
		mainWindow.Show()
		mainWindow.Focus()
	})
	trayMenu.Add("Quick Panel").OnClick(func(ctx *application.Context) {
		if err := appService.ShowFloatingPanel(); err != nil {
			slog.Error("show floating panel from tray", "error", err)
		}
	})
	trayMenu.AddSeparator()
	trayMenu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			appService.Shutdown()
			a.Quit()
		})

	systemTray.SetMenu(trayMenu)

	if err := a.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
