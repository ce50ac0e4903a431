package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Map       MapConfig       `yaml:"map"`
	Log       LogConfig       `yaml:"log"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	Driver         string         `yaml:"driver"` // sqlite, postgres or memory
	Path           string         `yaml:"path"`
	Key            string         `yaml:"key"`
	MigrationsPath string         `yaml:"migrations"`
	Postgres       DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type MapConfig struct {
	Zoom    int    `yaml:"zoom"`
	TileURL string `yaml:"tile_url"`
	// Home is used as the user's position when set; otherwise locating fails.
	Home *Position `yaml:"home"`
}

type Position struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name onto a slog.Level. Unknown names mean info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Default returns a config that runs without a file: sqlite in the working
// directory, plain HTTP on localhost.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8090},
		Storage: StorageConfig{
			Driver:         "sqlite",
			Path:           "pinlog.db",
			Key:            "workouts",
			MigrationsPath: "migrations",
			Postgres:       DatabaseConfig{Host: "localhost", Port: 5432, Name: "pinlog", User: "pinlog"},
		},
		Map: MapConfig{
			Zoom:    17,
			TileURL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
		Log:       LogConfig{Level: "info"},
		Tailscale: TailscaleConfig{Hostname: "pinlog", StateDir: ".tsnet"},
	}
}

// Load reads config from a YAML file on top of Default, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix PINLOG_:
//
//	PINLOG_SERVER_HOST, PINLOG_SERVER_PORT,
//	PINLOG_STORAGE_DRIVER, PINLOG_STORAGE_PATH,
//	PINLOG_DB_HOST, PINLOG_DB_PORT, PINLOG_DB_NAME,
//	PINLOG_DB_USER, PINLOG_DB_PASSWORD, PINLOG_DB_SSLMODE,
//	PINLOG_MAP_ZOOM, PINLOG_HOME_LAT, PINLOG_HOME_LNG,
//	PINLOG_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PINLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PINLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PINLOG_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("PINLOG_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("PINLOG_DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("PINLOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("PINLOG_DB_NAME"); v != "" {
		cfg.Storage.Postgres.Name = v
	}
	if v := os.Getenv("PINLOG_DB_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("PINLOG_DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("PINLOG_DB_SSLMODE"); v != "" {
		cfg.Storage.Postgres.SSLMode = v
	}
	if v := os.Getenv("PINLOG_MAP_ZOOM"); v != "" {
		if zoom, err := strconv.Atoi(v); err == nil {
			cfg.Map.Zoom = zoom
		}
	}
	lat, latErr := strconv.ParseFloat(os.Getenv("PINLOG_HOME_LAT"), 64)
	lng, lngErr := strconv.ParseFloat(os.Getenv("PINLOG_HOME_LNG"), 64)
	if latErr == nil && lngErr == nil {
		cfg.Map.Home = &Position{Lat: lat, Lng: lng}
	}
	if v := os.Getenv("PINLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case "postgres":
		if c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if c.Storage.Postgres.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if c.Storage.Postgres.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite, postgres, memory", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("map.zoom must be between 0 and 19, got %d", c.Map.Zoom)
	}
	if h := c.Map.Home; h != nil {
		if h.Lat < -90 || h.Lat > 90 || h.Lng < -180 || h.Lng > 180 {
			return fmt.Errorf("map.home %v,%v is out of range", h.Lat, h.Lng)
		}
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
