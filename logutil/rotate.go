package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	MaxSize     = 10 << 20 // 10 MB
	MaxArchives = 3
)

// RotatingFile is an append-only log file that is moved aside to
// name.1 .. name.N once it would grow past its size limit. The oldest
// archive is discarded.
type RotatingFile struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	archives int
	f        *os.File
	size     int64
}

// OpenRotating opens path for appending, rotating it first if it is
// already over maxSize.
func OpenRotating(path string, maxSize int64, archives int) (*RotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &RotatingFile{path: path, maxSize: maxSize, archives: archives}
	if st, err := os.Stat(path); err == nil && st.Size() > maxSize {
		w.shift()
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingFile) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat %s: %w", w.path, err)
	}
	w.f = f
	w.size = st.Size()
	return nil
}

func (w *RotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.f = nil
		w.shift()
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current file.
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingFile) shift() {
	_ = os.Remove(w.archive(w.archives))
	for i := w.archives - 1; i >= 1; i-- {
		_ = os.Rename(w.archive(i), w.archive(i+1))
	}
	_ = os.Rename(w.path, w.archive(1))
}

func (w *RotatingFile) archive(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
