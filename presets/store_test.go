package presets

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"go.aimuz.me/gobuddy/internal/types"
)

func sampleState(name string) types.PersistedState {
	s := types.DefaultState()
	s.NewPreset(types.ViewSelection)
	s.Presets.Selection[0].Name = name
	s.Presets.Selection[0].Prompt = "prompt for " + name
	s.Presets.Screenshot = append(s.Presets.Screenshot, types.Preset{ID: "shot", Name: "Shot"})
	s.SetActive(types.ViewScreenshot, "missing") // dangling on purpose
	s.Settings = &types.Settings{AutoOpenOnStart: true, OpenAIAPIKey: "sk-" + name}
	s.Hotkeys = &types.Hotkeys{Screenshot: "CmdOrCtrl+Shift+S"}
	return s
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s := NewStore(path)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, types.DefaultState()) {
		t.Errorf("Load = %+v, want default state", got)
	}
	if got.NextPresetID != 1 {
		t.Errorf("NextPresetID = %d, want 1", got.NextPresetID)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load must not create the file, stat err = %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := sampleState("alpha")

	saved, err := NewStore(path).Save(want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !reflect.DeepEqual(saved, want) {
		t.Errorf("Save returned %+v, want %+v", saved, want)
	}

	// A fresh store reads from disk rather than the cache.
	got, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	state := sampleState("beta")

	if _, err := NewStore(a).Save(state); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if _, err := NewStore(b).Save(state); err != nil {
		t.Fatalf("Save b: %v", err)
	}

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Error("identical states produced different files")
	}
	if !bytes.Contains(da, []byte("\n  \"presets\": {")) {
		t.Errorf("expected pretty printed JSON, got:\n%s", da)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load error = %v, want ErrCorrupt", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Open error = %v, want ErrCorrupt", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	raw := `{"presets": {"screenshot": [{"id": "preset-1", "name": "A", "prompt": "p"}]}}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.NextPresetID != 1 {
		t.Errorf("NextPresetID = %d, want default 1", got.NextPresetID)
	}
	if len(got.Presets.Screenshot) != 1 || got.Presets.InputField == nil {
		t.Errorf("unexpected presets: %+v", got.Presets)
	}
	if got.Settings != nil || got.Hotkeys != nil {
		t.Error("optional blobs should stay absent")
	}
}

func TestSaveFailureKeepsCache(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	// The parent of the state file is a regular file, so MkdirAll fails.
	s := NewStore(filepath.Join(blocker, FileName))

	before, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.Save(sampleState("gamma")); err == nil {
		t.Fatal("expected Save to fail")
	}

	after, err := s.Load()
	if err != nil {
		t.Fatalf("Load after failed save: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("cache changed after failed save: %+v", after)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName))
	if _, err := s.Save(sampleState("delta")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := s.Load()
	got.Presets.Selection[0].Name = "mutated"
	got.NextPresetID = 100

	again, _ := s.Load()
	if again.Presets.Selection[0].Name != "delta" || again.NextPresetID == 100 {
		t.Error("caller mutation leaked into the cache")
	}
}

func TestConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewStore(path)
	a := sampleState("first")
	b := sampleState("second")

	for range 20 {
		var wg sync.WaitGroup
		for _, st := range []types.PersistedState{a, b} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Save(st); err != nil {
					t.Errorf("Save: %v", err)
				}
			}()
		}
		wg.Wait()

		cached, err := s.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(cached, a) && !reflect.DeepEqual(cached, b) {
			t.Fatalf("cache holds neither payload: %+v", cached)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		var onDisk types.PersistedState
		if err := json.Unmarshal(data, &onDisk); err != nil {
			t.Fatalf("file is not valid JSON: %v", err)
		}
		if !reflect.DeepEqual(onDisk, cached) {
			t.Fatalf("file and cache diverged:\nfile  %+v\ncache %+v", onDisk, cached)
		}
	}
}
