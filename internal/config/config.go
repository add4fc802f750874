package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "FLOWAUDIO_"

// Duration is a time.Duration stored as a string such as "1.5s"
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of milliseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("duration must be a string or milliseconds: %w", err)
	}
	*d = Duration(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds application configuration. Relative ManifestPath, PrefsPath
// and LogFile values are resolved against the config file's directory.
type Config struct {
	ManifestPath string   `json:"manifest_path"`
	PrefsBackend string   `json:"prefs_backend"`
	PrefsPath    string   `json:"prefs_path"`
	DatabaseURL  string   `json:"database_url"`
	FadeDuration Duration `json:"fade_duration"`
	TickInterval Duration `json:"tick_interval"`
	SampleRate   int      `json:"sample_rate"`
	LoopMusic    bool     `json:"loop_music"`
	LogLevel     string   `json:"log_level"`
	LogFile      string   `json:"log_file"`
	WatchPrefs   bool     `json:"watch_prefs"`
	ScanWorkers  int      `json:"scan_workers"`
	KeyBindings  KeyMap   `json:"key_bindings"`
}

// KeyMap defines keyboard shortcuts for the settings screen
type KeyMap struct {
	Up         string `json:"up"`
	Down       string `json:"down"`
	Increase   string `json:"increase"`
	Decrease   string `json:"decrease"`
	Activate   string `json:"activate"`
	Next       string `json:"next"`
	Previous   string `json:"previous"`
	QueueAll   string `json:"queue_all"`
	PlayQueued string `json:"play_queued"`
	ClearQueue string `json:"clear_queue"`
	Quit       string `json:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		ManifestPath: "audio.yaml",
		PrefsBackend: "file",
		PrefsPath:    defaultDataPath("prefs.json"),
		FadeDuration: Duration(1500 * time.Millisecond),
		TickInterval: Duration(16 * time.Millisecond),
		SampleRate:   44100,
		LoopMusic:    true,
		LogLevel:     "info",
		LogFile:      defaultDataPath("flowaudio.log"),
		WatchPrefs:   true,
		ScanWorkers:  4,
		KeyBindings: KeyMap{
			Up:         "up",
			Down:       "down",
			Increase:   "right",
			Decrease:   "left",
			Activate:   "enter",
			Next:       "]",
			Previous:   "[",
			QueueAll:   "a",
			PlayQueued: "n",
			ClearQueue: "x",
			Quit:       "q",
		},
	}
}

// LoadConfig reads and unmarshals configuration from file. Fields missing
// from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists.
// Environment overrides are applied after the file but never saved.
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Save default config if file didn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from FLOWAUDIO_* environment variables
func (c *Config) ApplyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("MANIFEST", &c.ManifestPath)
	str("PREFS_BACKEND", &c.PrefsBackend)
	str("PREFS_PATH", &c.PrefsPath)
	str("DATABASE_URL", &c.DatabaseURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FILE", &c.LogFile)

	for name, dst := range map[string]*Duration{
		"FADE_DURATION": &c.FadeDuration,
		"TICK_INTERVAL": &c.TickInterval,
	} {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = Duration(d)
		}
	}

	for name, dst := range map[string]*int{
		"SAMPLE_RATE":  &c.SampleRate,
		"SCAN_WORKERS": &c.ScanWorkers,
	} {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}

	for name, dst := range map[string]*bool{
		"LOOP_MUSIC":  &c.LoopMusic,
		"WATCH_PREFS": &c.WatchPrefs,
	} {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}

	return nil
}

// ResolvePaths makes relative manifest, prefs and log paths relative to
// base. It runs after ApplyEnv, so relative FLOWAUDIO_* path overrides are
// also taken from base, not the working directory.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{&c.ManifestPath, &c.PrefsPath, &c.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "flowaudio", "config.json")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "flowaudio", "config.json")
}

func defaultDataPath(name string) string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "flowaudio", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", name)
	}
	return filepath.Join(home, ".local", "share", "flowaudio", name)
}
