package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.aimuz.me/gobuddy/gesture"
	"go.aimuz.me/gobuddy/input"
)

// ListenerAdapter runs the global input listener with proper
// synchronization. The gesture machine lives on the listener goroutine.
type ListenerAdapter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins listening on src and dispatches the intents the machine
// produces. Stops any existing listener first.
func (la *ListenerAdapter) Start(ctx context.Context, src input.Source, m *gesture.Machine, dispatch func([]gesture.Intent)) {
	la.Stop()

	la.mu.Lock()
	defer la.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	la.cancel = cancel
	la.done = done

	go func() {
		defer close(done)
		err := input.Run(ctx, src, func(ev input.Event) {
			if intents := m.Handle(ev); len(intents) > 0 {
				dispatch(intents)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			// Surfaces keep working through the frontend commands.
			slog.Error("input listener stopped", "error", err)
		}
	}()
}

// Stop cancels the listener and waits for it to exit.
func (la *ListenerAdapter) Stop() {
	la.mu.Lock()
	cancel, done := la.cancel, la.done
	la.cancel, la.done = nil, nil
	la.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a listener goroutine is active.
func (la *ListenerAdapter) Running() bool {
	la.mu.Lock()
	defer la.mu.Unlock()
	if la.done == nil {
		return false
	}
	select {
	case <-la.done:
		return false
	default:
		return true
	}
}
