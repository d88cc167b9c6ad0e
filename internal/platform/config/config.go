// Package config derives the data layout from a data directory and reads
// the optional .blockgarden/config.yaml on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	stateDirName   = ".blockgarden"
	configFileName = "config.yaml"
)

// Grid policies.
const (
	GridCurrentSlot = "current-slot"
	GridDayStart    = "day-start"
)

// Stage table policies.
const (
	StagesFrontLoaded = "front-loaded"
	StagesQuartile    = "quartile"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

type Config struct {
	DataDir    string
	StateDir   string
	DBPath     string
	FileKVDir  string
	PluginsDir string
	JournalDir string
	LogPath    string
	ConfigPath string
	Settings   Settings
}

// Settings is the YAML document stored in .blockgarden/config.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Focus     FocusConfig     `yaml:"focus"`
	Storage   StorageConfig   `yaml:"storage"`
	Assistant AssistantConfig `yaml:"assistant"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
}

type ScheduleConfig struct {
	Grid                  string `yaml:"grid"`
	BlockMinutes          int    `yaml:"block_minutes"`
	DayBlocks             int    `yaml:"day_blocks"`
	DayStart              string `yaml:"day_start"` // HH:MM, used by the day-start grid
	StaleToleranceMinutes int    `yaml:"stale_tolerance_minutes"`
}

type FocusConfig struct {
	Stages string `yaml:"stages"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
}

type AssistantConfig struct {
	Plugin        string `yaml:"plugin"`
	CredentialEnv string `yaml:"credential_env"`
	Language      string `yaml:"language"`
}

type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultSettings lays out sixteen 90-minute blocks starting at the current slot.
func DefaultSettings() Settings {
	return Settings{
		Version: 1,
		Schedule: ScheduleConfig{
			Grid:                  GridCurrentSlot,
			BlockMinutes:          90,
			DayBlocks:             16,
			DayStart:              "06:00",
			StaleToleranceMinutes: 5,
		},
		Focus:   FocusConfig{Stages: StagesFrontLoaded},
		Storage: StorageConfig{Backend: BackendSQLite},
		Assistant: AssistantConfig{
			Plugin:        "summarizer",
			CredentialEnv: "API_KEY",
			Language:      "en",
		},
		Journal: JournalConfig{Enabled: true},
		Log:     LogConfig{Level: "info"},
	}
}

// New resolves every path below dataDir and returns the default settings.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	stateDir := filepath.Join(dataDir, stateDirName)
	return Config{
		DataDir:    dataDir,
		StateDir:   stateDir,
		DBPath:     filepath.Join(stateDir, "blockgarden.db"),
		FileKVDir:  filepath.Join(stateDir, "state"),
		PluginsDir: dataDir,
		JournalDir: filepath.Join(dataDir, "garden"),
		LogPath:    filepath.Join(stateDir, "blockgarden.log"),
		ConfigPath: filepath.Join(stateDir, configFileName),
		Settings:   DefaultSettings(),
	}, nil
}

// Load is New plus the YAML layer. A missing config file is not an error.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Settings = Normalize(settings)
	return cfg, nil
}

// Write stores settings as the config file, creating the state directory.
func Write(cfg Config, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(cfg.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(Normalize(settings))
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(cfg.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Normalize replaces unknown or out-of-range values with defaults.
func Normalize(s Settings) Settings {
	def := DefaultSettings()
	if s.Version <= 0 {
		s.Version = def.Version
	}

	s.Schedule.Grid = strings.TrimSpace(s.Schedule.Grid)
	if s.Schedule.Grid != GridCurrentSlot && s.Schedule.Grid != GridDayStart {
		s.Schedule.Grid = def.Schedule.Grid
	}
	if s.Schedule.BlockMinutes <= 0 || s.Schedule.BlockMinutes > 24*60 {
		s.Schedule.BlockMinutes = def.Schedule.BlockMinutes
	}
	if s.Schedule.DayBlocks <= 0 {
		s.Schedule.DayBlocks = def.Schedule.DayBlocks
	}
	if _, err := ParseDayStart(s.Schedule.DayStart); err != nil {
		s.Schedule.DayStart = def.Schedule.DayStart
	}
	if s.Schedule.StaleToleranceMinutes <= 0 {
		s.Schedule.StaleToleranceMinutes = def.Schedule.StaleToleranceMinutes
	}

	s.Focus.Stages = strings.TrimSpace(s.Focus.Stages)
	if s.Focus.Stages != StagesFrontLoaded && s.Focus.Stages != StagesQuartile {
		s.Focus.Stages = def.Focus.Stages
	}

	s.Storage.Backend = strings.TrimSpace(s.Storage.Backend)
	if s.Storage.Backend != BackendSQLite && s.Storage.Backend != BackendFile {
		s.Storage.Backend = def.Storage.Backend
	}

	if strings.TrimSpace(s.Assistant.CredentialEnv) == "" {
		s.Assistant.CredentialEnv = def.Assistant.CredentialEnv
	}
	if strings.TrimSpace(s.Assistant.Language) == "" {
		s.Assistant.Language = def.Assistant.Language
	}

	switch strings.ToLower(strings.TrimSpace(s.Log.Level)) {
	case "trace", "debug", "info", "warn", "error", "off":
		s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	default:
		s.Log.Level = def.Log.Level
	}
	return s
}

// ParseDayStart converts "HH:MM" into minutes since midnight.
func ParseDayStart(v string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("day start %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
