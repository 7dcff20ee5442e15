// Package presets persists the presets document to a JSON file behind an
// in-memory cache.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go.aimuz.me/gobuddy/internal/types"
)

// FileName is the default name of the backing file inside the data dir.
const FileName = "gobuddy_presets.json"

// ErrCorrupt is wrapped by Load when the backing file exists but cannot be
// decoded.
var ErrCorrupt = errors.New("corrupt presets state")

// Store caches the persisted state and writes it through to disk.
// One mutex guards the cache for the whole of Load and Save, file I/O
// included, so saves are strictly serialized.
type Store struct {
	mu     sync.Mutex
	path   string
	cache  *types.PersistedState
	loaded bool
}

// NewStore creates a store backed by path. Nothing is read until Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates a store and primes its cache, surfacing a corrupt or
// unreadable file at startup.
func Open(path string) (*Store, error) {
	s := NewStore(path)
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached state, reading the file on first use.
// A missing file yields types.DefaultState and is not written back.
func (s *Store) Load() (types.PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.cache.Clone(), nil
	}

	state, err := readState(s.path)
	if err != nil {
		return types.PersistedState{}, err
	}
	s.cache = &state
	s.loaded = true
	return state.Clone(), nil
}

// Save overwrites the backing file with state and then replaces the cache.
// On failure the cache keeps its previous value.
func (s *Store) Save(state types.PersistedState) (types.PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeState(s.path, state); err != nil {
		return types.PersistedState{}, err
	}

	saved := state.Clone()
	s.cache = &saved
	s.loaded = true
	return saved.Clone(), nil
}

// Reload re-reads the backing file and replaces the cache. changed reports
// whether the new state differs from what was cached. On error the cache is
// kept.
func (s *Store) Reload() (state types.PersistedState, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err = readState(s.path)
	if err != nil {
		return types.PersistedState{}, false, err
	}
	changed = !s.loaded || !reflect.DeepEqual(*s.cache, state)
	s.cache = &state
	s.loaded = true
	return state.Clone(), changed, nil
}

func readState(path string) (types.PersistedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.DefaultState(), nil
		}
		return types.PersistedState{}, fmt.Errorf("read state: %w", err)
	}

	// Fields absent from the file keep their defaults.
	state := types.DefaultState()
	if err := json.Unmarshal(data, &state); err != nil {
		return types.PersistedState{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return state, nil
}

// writeState replaces path in full by writing a temp file and renaming it.
func writeState(path string, state types.PersistedState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
