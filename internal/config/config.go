// Package config loads the screener's YAML configuration, fills defaults,
// applies environment variable overrides, and validates the result.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the screener.
type Config struct {
	Storage  Storage  `yaml:"storage"`
	Screen   Screen   `yaml:"screen"`
	Backtest Backtest `yaml:"backtest"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
	Schedule Schedule `yaml:"schedule"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir" default:"./data" validate:"required"`
	SQLitePath string `yaml:"sqlite_path" default:"./data/dragonback.db" validate:"required"`
	NamesFile  string `yaml:"names_file" default:"./data/stock_names.csv"`
	ResultsDir string `yaml:"results_dir" default:"./results" validate:"required"`
}

// Screen holds the gating filters and selection parameters shared by every
// rule. All values are injected per run; nothing here is process-global.
type Screen struct {
	PriceMin           float64  `yaml:"price_min" default:"5.0" validate:"gte=0"`
	PriceMax           float64  `yaml:"price_max" default:"20.0" validate:"gtfield=PriceMin"`
	ExcludePrefixes    []string `yaml:"exclude_prefixes" default:"[\"30\",\"688\"]"`
	ExcludeNameMarkers []string `yaml:"exclude_name_markers" default:"[\"ST\"]"`
	MinHistory         int      `yaml:"min_history" default:"20" validate:"gte=2"`
	TopN               int      `yaml:"top_n" default:"10" validate:"gte=1"`
	Workers            int      `yaml:"workers"` // 0 = available CPU parallelism
	WeightByWinRate    bool     `yaml:"weight_by_win_rate"`
}

// Backtest holds the replay parameters. ExcludeRecent keeps the live signal's
// own trigger day (and its unfinished forward window) out of the history.
type Backtest struct {
	Window           int     `yaml:"window" default:"250" validate:"gte=10"`
	ExcludeRecent    int     `yaml:"exclude_recent" default:"3" validate:"gte=0,lte=10"`
	Horizon          int     `yaml:"horizon" default:"5" validate:"gte=1"`
	SuccessThreshold float64 `yaml:"success_threshold" default:"0.035" validate:"gt=0"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port int    `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json text"`
}

// Schedule configures the recurring scan. The cron expression includes a
// seconds field; the default fires at 15:45 on trading weekdays, after the
// mainland close.
type Schedule struct {
	Cron string `yaml:"cron" default:"0 45 15 * * 1-5"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, fills defaults,
// applies environment variable overrides, and validates. A missing file is
// fine: the defaults alone form a valid configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("NAMES_FILE"); v != "" {
		cfg.Storage.NamesFile = v
	}
	if v := os.Getenv("RESULTS_DIR"); v != "" {
		cfg.Storage.ResultsDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screen.Workers = n
		}
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
}
