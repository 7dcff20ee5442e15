// Package config handles application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	appName       = "gobuddy"
	stateFileName = "gobuddy_presets.json"

	// EnvFile names a .env file to read when none sits beside the
	// executable.
	EnvFile = "GOBUDDY_ENV"

	envDataDir     = "GOBUDDY_DATA_DIR"
	envStateFile   = "GOBUDDY_STATE_FILE"
	envPanelWidth  = "GOBUDDY_PANEL_WIDTH"
	envPanelHeight = "GOBUDDY_PANEL_HEIGHT"
	envTaskQueue   = "GOBUDDY_TASK_QUEUE"
	envTaskWorkers = "GOBUDDY_TASK_WORKERS"
	envLogLevel    = "GOBUDDY_LOG_LEVEL"
	envLogFile     = "GOBUDDY_LOG_FILE"
)

// Defaults.
const (
	DefaultPanelWidth  = 120
	DefaultPanelHeight = 200
	DefaultTaskQueue   = 64
	DefaultTaskWorkers = 1
)

// ErrInvalid is returned when a setting cannot be parsed.
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration.
type Config struct {
	DataDir     string
	StateFile   string
	PanelWidth  float64
	PanelHeight float64
	TaskQueue   int
	TaskWorkers int
	LogLevel    string
	LogFile     string

	// EnvPath is the .env file that was applied, if any.
	EnvPath string
}

// Load reads the .env file beside the executable (or at GOBUDDY_ENV) into
// the environment without overriding variables already set, then builds
// the configuration from the environment.
func Load() (*Config, error) {
	envPath := resolveEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	cfg.EnvPath = envPath
	return cfg, nil
}

// FromEnv builds the configuration from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DataDir:     strings.TrimSpace(getenv(envDataDir)),
		StateFile:   stateFileName,
		PanelWidth:  DefaultPanelWidth,
		PanelHeight: DefaultPanelHeight,
		TaskQueue:   DefaultTaskQueue,
		TaskWorkers: DefaultTaskWorkers,
		LogLevel:    strings.TrimSpace(getenv(envLogLevel)),
		LogFile:     strings.TrimSpace(getenv(envLogFile)),
	}

	if cfg.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get user config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(dir, appName)
	}
	if v := strings.TrimSpace(getenv(envStateFile)); v != "" {
		cfg.StateFile = v
	}

	var err error
	if cfg.PanelWidth, err = positiveFloat(getenv, envPanelWidth, cfg.PanelWidth); err != nil {
		return nil, err
	}
	if cfg.PanelHeight, err = positiveFloat(getenv, envPanelHeight, cfg.PanelHeight); err != nil {
		return nil, err
	}
	if cfg.TaskQueue, err = positiveInt(getenv, envTaskQueue, cfg.TaskQueue); err != nil {
		return nil, err
	}
	if cfg.TaskWorkers, err = positiveInt(getenv, envTaskWorkers, cfg.TaskWorkers); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StatePath returns the presets file. A relative StateFile is resolved
// against DataDir.
func (c *Config) StatePath() string {
	if filepath.IsAbs(c.StateFile) {
		return c.StateFile
	}
	return filepath.Join(c.DataDir, c.StateFile)
}

func resolveEnvPath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if alt := os.Getenv(EnvFile); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return ""
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q: want a positive integer", ErrInvalid, key, v)
	}
	return n, nil
}

func positiveFloat(getenv func(string) string, key string, def float64) (float64, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q: want a positive number", ErrInvalid, key, v)
	}
	return n, nil
}
