package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. WORLDMATCH_HTTP_PORT.
const EnvPrefix = "WORLDMATCH_"

// Storage drivers.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the worldmatch service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" envPrefix:"HTTP_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Database  DatabaseConfig  `yaml:"database" envPrefix:"DATABASE_"`
	Directory DirectoryConfig `yaml:"directory" envPrefix:"DIRECTORY_"`
	Logging   LoggingConfig   `yaml:"logging" envPrefix:"LOGGING_"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" env:"PORT"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec" env:"READ_TIMEOUT_SEC"`
	WriteTimeoutSec int `yaml:"write_timeout_sec" env:"WRITE_TIMEOUT_SEC"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec" env:"SHUTDOWN_TIMEOUT_SEC"`
}

// StorageConfig selects where the record file lives.
type StorageConfig struct {
	Driver          string `yaml:"driver" env:"DRIVER"` // file, redis, valkey (default: file)
	RecordsPath     string `yaml:"records_path" env:"RECORDS_PATH"`
	CoordinatesPath string `yaml:"coordinates_path" env:"COORDINATES_PATH"`
	RecordsKey      string `yaml:"records_key" env:"RECORDS_KEY"` // redis/valkey only
}

// DatabaseConfig holds key-value store connection settings (redis/valkey drivers).
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs" env:"ADDRS"`
	Username         string   `yaml:"username" env:"USERNAME"`
	Password         string   `yaml:"password" env:"PASSWORD"`
	DB               int      `yaml:"db" env:"DB"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec" env:"READINESS_TIMEOUT_SEC"`
}

// DirectoryConfig holds presentation settings of the directory.
type DirectoryConfig struct {
	AllCountriesLabel string `yaml:"all_countries_label" env:"ALL_COUNTRIES_LABEL"`
}

// UsesKV reports whether records live in a key-value store.
func (s StorageConfig) UsesKV() bool {
	return s.Driver == DriverRedis || s.Driver == DriverValkey
}

// Load reads configuration from a YAML file by environment name (local, dev, prod),
// then applies WORLDMATCH_* environment overrides.
func Load(envName string) (Config, error) {
	configPath := findConfigPath(envName)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data, nil)
}

// Parse decodes YAML config data and applies overrides from environ.
// A nil environ means the process environment.
func Parse(data []byte, environ map[string]string) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if e := os.Getenv("ENV"); e != "" {
		return e
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.RecordsPath == "" {
		c.Storage.RecordsPath = "data/people.csv"
	}
	if c.Storage.CoordinatesPath == "" {
		c.Storage.CoordinatesPath = "data/countries.csv"
	}
	if c.Storage.RecordsKey == "" {
		c.Storage.RecordsKey = "worldmatch:people"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Directory.AllCountriesLabel == "" {
		c.Directory.AllCountriesLabel = "All"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case DriverFile, DriverRedis, DriverValkey:
	default:
		return fmt.Errorf("storage.driver must be %q, %q or %q, got %q",
			DriverFile, DriverRedis, DriverValkey, c.Storage.Driver)
	}
	if c.Storage.UsesKV() && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required for storage.driver %q", c.Storage.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(envName string) string {
	filename := fmt.Sprintf("%s.yaml", envName)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
