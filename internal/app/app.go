// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/gobuddy/config"
	"go.aimuz.me/gobuddy/display"
	"go.aimuz.me/gobuddy/geometry"
	"go.aimuz.me/gobuddy/gesture"
	"go.aimuz.me/gobuddy/input"
	"go.aimuz.me/gobuddy/internal/types"
	"go.aimuz.me/gobuddy/presets"
	"go.aimuz.me/gobuddy/surface"
	"go.aimuz.me/gobuddy/worker"
)

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; behavior lives in the bridge and
// the packages it drives.
type Service struct {
	cfg *config.Config

	// UI references - set via Init
	app *application.App

	store    *presets.Store
	surfaces *surface.Controller
	pool     *worker.Pool
	bridge   *Bridge
	listener ListenerAdapter
	cancel   context.CancelFunc

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string, cfg *config.Config) *Service {
	return &Service{version: version, cfg: cfg}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the store, the surfaces and the task queue, then starts the
// global input listener. Must be called after Wails application is created.
func (s *Service) Init(app *application.App) {
	s.app = app
	if s.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			slog.Error("load config", "error", err)
			cfg = &config.Config{}
		}
		s.cfg = cfg
	}

	s.store = presets.NewStore(s.cfg.StatePath())
	if _, err := s.store.Load(); err != nil {
		// Commands report the error again; the panel shows nothing until a
		// save replaces the file.
		slog.Error("load presets", "path", s.store.Path(), "error", err)
	} else {
		slog.Info("presets loaded", "path", s.store.Path())
	}

	s.surfaces = surface.NewController(
		windowFactory{app: app},
		display.Screen{},
		geometry.Size{W: s.cfg.PanelWidth, H: s.cfg.PanelHeight},
	)
	s.pool = worker.New(context.Background(), s.cfg.TaskWorkers, s.cfg.TaskQueue)
	s.bridge = NewBridge(s.surfaces, s.store, s.pool, s.emit)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.watchPresets(ctx)

	s.listener.Start(ctx, input.HookSource{}, gesture.New(s.surfaces.State()), s.bridge.Dispatch)
}

// watchPresets pushes edits made to the presets file by other processes.
func (s *Service) watchPresets(ctx context.Context) {
	err := presets.Watch(ctx, s.store, presets.DefaultSettle, func(state types.PersistedState) {
		s.emit(EventPresetsState, state)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("presets watcher stopped", "error", err)
	}
}

// Shutdown stops the listener and drains pending UI tasks.
func (s *Service) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.listener.Stop()
	if s.pool != nil {
		s.pool.Close()
	}
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Presets
// ─────────────────────────────────────────────────────────────────────────────

// LoadPresetsState returns the persisted presets, or the default state when
// nothing was saved yet.
func (s *Service) LoadPresetsState() (types.PersistedState, error) {
	return s.bridge.LoadState()
}

// SavePresetsState overwrites the persisted presets and broadcasts them.
func (s *Service) SavePresetsState(state types.PersistedState) (types.PersistedState, error) {
	return s.bridge.SaveState(state)
}

// SelectPreset marks a preset active in the given view.
func (s *Service) SelectPreset(view, presetID string) (types.PersistedState, error) {
	return s.bridge.SelectPreset(view, presetID)
}

// AddPreset creates an empty preset in the given view.
func (s *Service) AddPreset(view string) (types.Preset, error) {
	return s.bridge.AddPreset(view)
}

// ─────────────────────────────────────────────────────────────────────────────
// Surfaces
// ─────────────────────────────────────────────────────────────────────────────

// HideOverlay hides the overlay button.
func (s *Service) HideOverlay() error {
	return s.bridge.HideOverlay()
}

// HideFloatingPanel hides the floating panel.
func (s *Service) HideFloatingPanel() error {
	return s.bridge.HidePanel()
}

// ShowFloatingPanel opens the floating panel at the overlay anchor.
func (s *Service) ShowFloatingPanel() error {
	return s.bridge.ShowPanel()
}
