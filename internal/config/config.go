// Package config loads bigbrother's CLI-boundary settings: where session
// logs live, and the default recording/replay knobs a user can override
// per-invocation. It never touches the event wire format (event.Event's
// codec is fixed by spec §4.1) — only how the recorder and replayer are
// configured before a session starts.
//
// Grounded on the teacher's internal/config.Manager: a mutex-guarded
// struct loaded from a platform-specific path, generalized from
// hand-rolled JSON (encoding/json + os.MkdirAll) to spf13/viper over
// YAML, the config idiom the handoff repo's surrounding stack favors and
// which lets every setting be overridden by an environment variable or
// CLI flag without extra plumbing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is bigbrother's on-disk settings.
type Config struct {
	StorageDir           string        `mapstructure:"storage_dir" yaml:"storage_dir"`
	DefaultReplaySpeed   float64       `mapstructure:"default_replay_speed" yaml:"default_replay_speed"`
	CaptureContext       bool          `mapstructure:"capture_context" yaml:"capture_context"`
	BusCapacity          int           `mapstructure:"bus_capacity" yaml:"bus_capacity"`
	MoveCoalesceWindowMS uint64        `mapstructure:"move_coalesce_window_ms" yaml:"move_coalesce_window_ms"`
	TextFlushTimeout     time.Duration `mapstructure:"text_flush_timeout" yaml:"text_flush_timeout"`
}

// Default returns bigbrother's built-in defaults, used when no config
// file exists and as the base that a loaded file's values are merged
// onto.
func Default() Config {
	return Config{
		StorageDir:           defaultStorageDir(),
		DefaultReplaySpeed:   1.0,
		CaptureContext:       true,
		BusCapacity:          4096,
		MoveCoalesceWindowMS: 16,
		TextFlushTimeout:     time.Second,
	}
}

// DefaultPath resolves the config file location the same way the
// teacher's Manager resolves its own: a platform-appropriate
// application-support directory under the user's home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "bigbrother", "config.yaml")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "bigbrother", "config.yaml")
	default:
		return filepath.Join(home, ".config", "bigbrother", "config.yaml")
	}
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".bigbrother", "sessions")
}

// Load reads the config file at path, falling back to Default() values
// for any unset field. A missing file is not an error — bigbrother runs
// on defaults until the user writes one.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage_dir", def.StorageDir)
	v.SetDefault("default_replay_speed", def.DefaultReplaySpeed)
	v.SetDefault("capture_context", def.CaptureContext)
	v.SetDefault("bus_capacity", def.BusCapacity)
	v.SetDefault("move_coalesce_window_ms", def.MoveCoalesceWindowMS)
	v.SetDefault("text_flush_timeout", def.TextFlushTimeout)

	v.SetEnvPrefix("BIGBROTHER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating its parent directory if
// needed. Marshaling goes through yaml.v3 directly rather than viper's
// own writer, since Config's yaml tags are the source of truth for the
// file's shape.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
