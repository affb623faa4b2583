package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	TempDir     string   `yaml:"temp_dir"`
	HistoryDB   string   `yaml:"history_db"`
	CORSOrigins []string `yaml:"cors_origins"`
	Version     string   `yaml:"-"`
}

// Environment variables read by ApplyEnv
const (
	EnvHost        = "MOF_HOST"
	EnvPort        = "MOF_PORT"
	EnvTempDir     = "MOF_TEMP_DIR"
	EnvHistoryDB   = "MOF_HISTORY_DB"
	EnvCORSOrigins = "MOF_CORS_ORIGINS"
)

// Default returns the configuration used when nothing else is set
func Default() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 8000,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the process environment,
// in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// a missing .env is fine, an unreadable or malformed one is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("cannot load .env: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file leave cfg unchanged.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays any MOF_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvTempDir); v != "" {
		cfg.TempDir = v
	}
	if v := os.Getenv(EnvHistoryDB); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		cfg.CORSOrigins = SplitList(v)
	}
	return nil
}

// SplitList splits a comma separated list, dropping empty entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr returns the host:port listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the values that cannot be defaulted
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}
