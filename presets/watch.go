package presets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"go.aimuz.me/gobuddy/internal/types"
)

// DefaultSettle is how long Watch waits for a burst of file events to end
// before reloading.
const DefaultSettle = 150 * time.Millisecond

// Watch reloads s whenever its backing file is changed by another process
// and calls onChange with the new state. Writes that leave the content
// equal to the cache, such as the store's own saves, are not reported.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, s *Store, settle time.Duration, onChange func(types.PersistedState)) error {
	if settle <= 0 {
		settle = DefaultSettle
	}
	path, err := filepath.Abs(s.Path())
	if err != nil {
		return fmt.Errorf("resolve state path: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// The directory is watched, not the file: saves replace the file by
	// rename, which would drop a watch on the old inode.
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Debug("watching presets", "path", path)

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("presets watcher", "error", err)
		case <-timer.C:
			state, changed, err := s.Reload()
			if err != nil {
				slog.Warn("reload presets", "path", path, "error", err)
				continue
			}
			if changed {
				slog.Info("presets changed on disk", "path", path)
				onChange(state)
			}
		}
	}
}
