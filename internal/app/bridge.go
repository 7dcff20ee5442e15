package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"go.aimuz.me/gobuddy/geometry"
	"go.aimuz.me/gobuddy/gesture"
	"go.aimuz.me/gobuddy/internal/types"
	"go.aimuz.me/gobuddy/presets"
	"go.aimuz.me/gobuddy/surface"
	"go.aimuz.me/gobuddy/worker"
)

// ErrUnknownPreset is returned when a selection names a preset that does not
// exist in the view.
var ErrUnknownPreset = errors.New("unknown preset")

// Queue runs tasks off the caller's goroutine. *worker.Pool implements it.
type Queue interface {
	Submit(id string, t worker.Task) bool
}

// Bridge turns gesture intents into surface operations and keeps the
// frontend in sync with the preset store.
type Bridge struct {
	surfaces *surface.Controller
	store    *presets.Store
	queue    Queue
	emit     Emitter
}

// NewBridge creates a bridge. A nil emit drops broadcasts.
func NewBridge(surfaces *surface.Controller, store *presets.Store, queue Queue, emit Emitter) *Bridge {
	if emit == nil {
		emit = func(string, any) {}
	}
	return &Bridge{surfaces: surfaces, store: store, queue: queue, emit: emit}
}

// Dispatch schedules intents as a single task so they run in order. It never
// blocks; when the queue is full the batch is dropped.
func (b *Bridge) Dispatch(intents []gesture.Intent) {
	if len(intents) == 0 {
		return
	}
	batch := slices.Clone(intents)
	id := uuid.NewString()
	ok := b.queue.Submit(id, func(ctx context.Context) {
		for _, in := range batch {
			b.execute(ctx, id, in)
		}
	})
	if !ok {
		slog.Warn("ui queue full, dropping intents", "task", id, "intents", len(batch))
	}
}

func (b *Bridge) execute(_ context.Context, task string, in gesture.Intent) {
	slog.Debug("run intent", "task", task, "intent", in.String())
	switch in.Kind {
	case gesture.ShowOverlay:
		b.surfaces.ShowOverlayAt(in.At, in.Direction)
	case gesture.HideOverlay:
		_ = b.surfaces.HideOverlay()
	case gesture.OpenFloatingPanel:
		if err := b.openPanel(in.At); err != nil {
			slog.Warn("open floating panel", "task", task, "error", err)
		}
	case gesture.HideFloatingPanel:
		_ = b.surfaces.HidePanel()
	default:
		slog.Warn("unknown intent", "task", task, "intent", in.String())
	}
}

// openPanel shows the panel near anchor and pushes the current presets to
// it. The broadcast happens even when showing failed so a late show still
// has data.
func (b *Bridge) openPanel(anchor geometry.Point) error {
	_, err := b.surfaces.ShowPanelNear(anchor)
	b.Broadcast()
	return err
}

// Broadcast emits the current persisted state. Load failures are logged and
// nothing is sent.
func (b *Bridge) Broadcast() {
	state, err := b.store.Load()
	if err != nil {
		slog.Error("load presets for broadcast", "error", err)
		return
	}
	b.emit(EventPresetsState, state)
}

// LoadState returns the persisted state.
func (b *Bridge) LoadState() (types.PersistedState, error) {
	state, err := b.store.Load()
	if err != nil {
		return types.PersistedState{}, fmt.Errorf("load presets: %w", err)
	}
	return state, nil
}

// SaveState persists state and broadcasts it.
func (b *Bridge) SaveState(state types.PersistedState) (types.PersistedState, error) {
	saved, err := b.store.Save(state)
	if err != nil {
		return types.PersistedState{}, fmt.Errorf("save presets: %w", err)
	}
	b.emit(EventPresetsState, saved)
	return saved, nil
}

// SelectPreset makes id the active preset of view, persists it and tells
// listeners about the pick. An empty id clears the selection.
func (b *Bridge) SelectPreset(view, id string) (types.PersistedState, error) {
	v, err := types.ParseView(view)
	if err != nil {
		return types.PersistedState{}, err
	}
	state, err := b.LoadState()
	if err != nil {
		return types.PersistedState{}, err
	}
	if id != "" && !slices.ContainsFunc(state.List(v), func(p types.Preset) bool { return p.ID == id }) {
		return types.PersistedState{}, fmt.Errorf("select %s preset %q: %w", v, id, ErrUnknownPreset)
	}
	state.SetActive(v, id)

	saved, err := b.SaveState(state)
	if err != nil {
		return types.PersistedState{}, err
	}
	sel := types.PresetSelection{View: v}
	if id != "" {
		sel.PresetID = &id
	}
	b.emit(EventPresetSelected, sel)
	return saved, nil
}

// AddPreset appends a new empty preset to view and makes it active.
func (b *Bridge) AddPreset(view string) (types.Preset, error) {
	v, err := types.ParseView(view)
	if err != nil {
		return types.Preset{}, err
	}
	state, err := b.LoadState()
	if err != nil {
		return types.Preset{}, err
	}
	p := state.NewPreset(v)
	if _, err := b.SaveState(state); err != nil {
		return types.Preset{}, err
	}
	return p, nil
}

// ShowPanel opens the floating panel at the overlay anchor.
func (b *Bridge) ShowPanel() error {
	return b.openPanel(b.surfaces.State().OverlayAnchor())
}

// HideOverlay hides the overlay.
func (b *Bridge) HideOverlay() error {
	return b.surfaces.HideOverlay()
}

// HidePanel hides the floating panel.
func (b *Bridge) HidePanel() error {
	return b.surfaces.HidePanel()
}
