package input

import (
	"context"
	"log/slog"
)

// Handler consumes one event. It runs on the listener goroutine and must
// not block.
type Handler func(Event)

// Run subscribes to src and feeds every event to fn until ctx is done or the
// source closes. A panic in fn is logged and the loop continues.
func Run(ctx context.Context, src Source, fn Handler) error {
	events, err := src.Events(ctx)
	if err != nil {
		return err
	}

	slog.Info("input listener started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("input listener stopped")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				slog.Info("input source closed")
				return nil
			}
			dispatch(fn, ev)
		}
	}
}

func dispatch(fn Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("input handler panic", "event", ev.Kind, "panic", r)
		}
	}()
	fn(ev)
}

// ChanSource replays events from a channel. Tests and scripted sessions
// use it in place of the global hook.
type ChanSource <-chan Event

// Events implements Source.
func (c ChanSource) Events(context.Context) (<-chan Event, error) {
	return c, nil
}
