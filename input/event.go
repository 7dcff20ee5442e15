// Package input delivers global pointer and keyboard events.
package input

import (
	"context"
	"errors"
	"fmt"

	"go.aimuz.me/gobuddy/geometry"
)

// ErrListenerStart is returned when the global hook cannot be installed.
var ErrListenerStart = errors.New("start input listener")

// Kind classifies an input event.
type Kind int

const (
	KindMove Kind = iota + 1
	KindPress
	KindRelease
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindPress:
		return "press"
	case KindRelease:
		return "release"
	case KindKey:
		return "key"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Button identifies a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Event is one global input event in screen coordinates.
// Pos is only meaningful for moves.
type Event struct {
	Kind   Kind
	Pos    geometry.Point
	Button Button
}

// Move, Press, Release and Key build events; they keep tests and adapters
// short.
func Move(x, y float64) Event { return Event{Kind: KindMove, Pos: geometry.Point{X: x, Y: y}} }
func Press(b Button) Event    { return Event{Kind: KindPress, Button: b} }
func Release(b Button) Event  { return Event{Kind: KindRelease, Button: b} }
func Key() Event              { return Event{Kind: KindKey} }

// Source is a push-based stream of input events that runs until ctx is
// done. The returned channel is closed when the source stops.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}
