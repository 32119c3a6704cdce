package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Namespace     string `toml:"namespace"`
		Server        string `toml:"server"`
		FlushEveryMin int    `toml:"flush_every_min"`
		RetentionDays int    `toml:"retention_days"`
		LogLevel      string `toml:"log_level"`
	} `toml:"app"`

	Bridge struct {
		WsURL      string `toml:"ws_url"`
		Structured bool   `toml:"structured"`
		Scraper    bool   `toml:"scraper"`
	} `toml:"bridge"`

	Storage struct {
		Driver string `toml:"driver"` // sqlite | redis | postgres

		Path string `toml:"path"` // sqlite file

		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`

		PostgresDSN string `toml:"postgres_dsn"`
	} `toml:"storage"`

	Export struct {
		Dir string `toml:"dir"`
	} `toml:"export"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// .env is optional; real env always wins over the file
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets operators inject the partition and credentials
// without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.App.Server, "HDVTRACK_SERVER")
	setStr(&cfg.Bridge.WsURL, "HDVTRACK_BRIDGE_WS_URL")
	setStr(&cfg.Storage.Driver, "HDVTRACK_STORAGE_DRIVER")
	setStr(&cfg.Storage.Path, "HDVTRACK_SQLITE_PATH")
	setStr(&cfg.Storage.RedisAddr, "HDVTRACK_REDIS_ADDR")
	setStr(&cfg.Storage.RedisPassword, "HDVTRACK_REDIS_PASSWORD")
	setInt(&cfg.Storage.RedisDB, "HDVTRACK_REDIS_DB")
	setStr(&cfg.Storage.PostgresDSN, "HDVTRACK_POSTGRES_DSN")
	setStr(&cfg.Export.Dir, "HDVTRACK_EXPORT_DIR")
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.Namespace) == "" {
		cfg.App.Namespace = "hdvtrack-market-data"
	}
	if cfg.App.FlushEveryMin <= 0 {
		cfg.App.FlushEveryMin = 5
	}
	if cfg.App.RetentionDays <= 0 {
		cfg.App.RetentionDays = 7
	}
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "data/hdvtrack.db"
	}
	if strings.TrimSpace(cfg.Export.Dir) == "" {
		cfg.Export.Dir = "exports"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.App.Server) == "" {
		return errors.New("app.server is empty")
	}
	if !cfg.Bridge.Structured && !cfg.Bridge.Scraper {
		return errors.New("both bridge channels disabled")
	}
	if strings.TrimSpace(cfg.Bridge.WsURL) == "" {
		return errors.New("bridge.ws_url is empty")
	}

	switch cfg.Storage.Driver {
	case "sqlite":
	case "redis":
		if strings.TrimSpace(cfg.Storage.RedisAddr) == "" {
			return errors.New("storage.redis_addr empty but driver is redis")
		}
	case "postgres":
		if strings.TrimSpace(cfg.Storage.PostgresDSN) == "" {
			return errors.New("storage.postgres_dsn empty but driver is postgres")
		}
	default:
		return errors.New("storage.driver must be sqlite, redis or postgres")
	}
	return nil
}

// PartitionKey derives the durable-storage key for the configured server.
func (c *Config) PartitionKey() string {
	return c.App.Namespace + "-" + c.App.Server
}

func setStr(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
