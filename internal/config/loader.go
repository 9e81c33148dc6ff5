package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dirName      = "transpors"
	fileName     = "config.yaml"
	dataFileName = "data_file.gtfs"
	storeName    = "schedules.db"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "TRANSPORS_CONFIG_DIR"
	// EnvEnvironment selects development, test or production.
	EnvEnvironment = "TRANSPORS_ENV"
)

// ErrNotConfigured is returned by Load when no configuration file exists yet.
var ErrNotConfigured = errors.New("transpors is not configured yet")

var validate = validator.New()

// Paths locates the files kept in the configuration directory.
type Paths struct {
	Dir string
}

// LoadEnv reads a .env file from the working directory when present.
func LoadEnv() {
	_ = godotenv.Load()
}

// DefaultPaths resolves the configuration directory: TRANSPORS_CONFIG_DIR when
// set, the user config directory otherwise.
func DefaultPaths() (Paths, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return Paths{Dir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("config directory is not available: %w", err)
	}
	return Paths{Dir: filepath.Join(base, dirName)}, nil
}

// File is the path of config.yaml.
func (p Paths) File() string { return filepath.Join(p.Dir, fileName) }

// DataFile is where the retrieved feed is kept.
func (p Paths) DataFile() string { return filepath.Join(p.Dir, dataFileName) }

// Store is the SQLite file holding the precomputed schedules.
func (p Paths) Store() string { return filepath.Join(p.Dir, storeName) }

// EnsureDir creates the configuration directory if it does not exist.
func (p Paths) EnsureDir() error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Load reads and validates config.yaml.
func (p Paths) Load() (*AppConfig, error) {
	data, err := os.ReadFile(p.File())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save validates cfg and writes it to config.yaml, creating the directory.
func (p Paths) Save(cfg *AppConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := p.EnsureDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(p.File(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks cfg against its struct tags and rejects duplicate stops.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	seen := make(map[string]bool, len(cfg.Stops))
	for _, s := range cfg.Stops {
		if seen[s.ID] {
			return fmt.Errorf("invalid configuration: stop %q listed twice", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
