// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventPresetsState   = "presets-state"
	EventPresetSelected = "preset-selected"
)

// Emitter publishes a named event to every frontend listener.
type Emitter func(name string, data any)
