package input

import (
	"context"
	"fmt"
	"log/slog"

	hook "github.com/robotn/gohook"
)

// gohook mouse button numbers (libuiohook MOUSE_BUTTON1..3).
const (
	hookButtonLeft   = 1
	hookButtonRight  = 2
	hookButtonMiddle = 3
)

// HookSource reads the global input stream through gohook.
// Only one HookSource may run at a time; gohook keeps a process-wide hook.
type HookSource struct {
	// Buffer is the capacity of the translated event channel.
	Buffer int
}

// Events starts the global hook and translates its events until ctx is done.
func (s HookSource) Events(ctx context.Context) (<-chan Event, error) {
	raw := hook.Start()
	if raw == nil {
		return nil, fmt.Errorf("%w: gohook returned nil channel", ErrListenerStart)
	}

	size := s.Buffer
	if size <= 0 {
		size = 256
	}
	out := make(chan Event, size)

	go func() {
		defer close(out)
		defer hook.End()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("input hook panic", "panic", r)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					slog.Warn("input hook channel closed")
					return
				}
				translated, ok := fromHook(ev)
				if !ok {
					continue
				}
				select {
				case out <- translated:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// fromHook converts a gohook event. gohook names the raw press MouseHold and
// the raw release MouseDown; MouseUp is a synthesized click and is ignored.
// Key presses arrive as KeyHold (pressed) and KeyDown (typed); both cancel.
func fromHook(ev hook.Event) (Event, bool) {
	switch ev.Kind {
	case hook.MouseMove, hook.MouseDrag:
		return Move(float64(ev.X), float64(ev.Y)), true
	case hook.MouseHold:
		return Press(hookButton(ev.Button)), true
	case hook.MouseDown:
		return Release(hookButton(ev.Button)), true
	case hook.KeyHold, hook.KeyDown:
		return Key(), true
	default:
		return Event{}, false
	}
}

func hookButton(b uint16) Button {
	switch b {
	case hookButtonLeft:
		return ButtonLeft
	case hookButtonRight:
		return ButtonRight
	case hookButtonMiddle:
		return ButtonMiddle
	default:
		return ButtonNone
	}
}
