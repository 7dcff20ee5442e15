package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{envDataDir: "/data"}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.PanelWidth != DefaultPanelWidth || cfg.PanelHeight != DefaultPanelHeight {
		t.Errorf("panel = %vx%v", cfg.PanelWidth, cfg.PanelHeight)
	}
	if cfg.TaskQueue != DefaultTaskQueue || cfg.TaskWorkers != DefaultTaskWorkers {
		t.Errorf("tasks = %d/%d", cfg.TaskQueue, cfg.TaskWorkers)
	}
	if got, want := cfg.StatePath(), filepath.Join("/data", "gobuddy_presets.json"); got != want {
		t.Errorf("StatePath = %q, want %q", got, want)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	cfg, err := FromEnv(envMap(map[string]string{
		envDataDir:     "/data",
		envStateFile:   abs,
		envPanelWidth:  "240.5",
		envPanelHeight: " 300 ",
		envTaskQueue:   "8",
		envTaskWorkers: "2",
		envLogLevel:    "debug",
		envLogFile:     "/tmp/gobuddy.log",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.PanelWidth != 240.5 || cfg.PanelHeight != 300 {
		t.Errorf("panel = %vx%v", cfg.PanelWidth, cfg.PanelHeight)
	}
	if cfg.TaskQueue != 8 || cfg.TaskWorkers != 2 {
		t.Errorf("tasks = %d/%d", cfg.TaskQueue, cfg.TaskWorkers)
	}
	if cfg.LogLevel != "debug" || cfg.LogFile != "/tmp/gobuddy.log" {
		t.Errorf("log = %q %q", cfg.LogLevel, cfg.LogFile)
	}
	if cfg.StatePath() != abs {
		t.Errorf("StatePath = %q, want %q", cfg.StatePath(), abs)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{envPanelWidth, "wide"},
		{envPanelHeight, "0"},
		{envTaskQueue, "-1"},
		{envTaskWorkers, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := FromEnv(envMap(map[string]string{envDataDir: "/data", tt.key: tt.value}))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFromEnvDefaultDataDir(t *testing.T) {
	dir, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if want := filepath.Join(dir, "gobuddy"); cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "gobuddy.env")
	content := "GOBUDDY_DATA_DIR=" + dir + "\nGOBUDDY_TASK_QUEUE=5\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// Register cleanup for the variables the file sets, then clear them so
	// the file is allowed to fill them in.
	for _, k := range []string{envDataDir, envTaskQueue} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv(EnvFile, envPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnvPath != envPath {
		t.Errorf("EnvPath = %q, want %q", cfg.EnvPath, envPath)
	}
	if cfg.DataDir != dir || cfg.TaskQueue != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "gobuddy.env")
	if err := os.WriteFile(envPath, []byte("GOBUDDY_TASK_WORKERS=9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envDataDir, dir)
	t.Setenv(envTaskWorkers, "3")
	t.Setenv(EnvFile, envPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TaskWorkers != 3 {
		t.Errorf("TaskWorkers = %d, want 3", cfg.TaskWorkers)
	}
}
