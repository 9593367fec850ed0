package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Workshop WorkshopConfig `mapstructure:"workshop"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// LogLevel is the gorm logger level: silent|error|warn|info.
	LogLevel string `mapstructure:"log_level"`
}

type WorkshopConfig struct {
	CompanyID       string        `mapstructure:"company_id"`
	LockTimeout     time.Duration `mapstructure:"lock_timeout"`
	BusyRetries     int           `mapstructure:"busy_retries"`
	HistoryCacheTTL time.Duration `mapstructure:"history_cache_ttl"`
}

type NotifyConfig struct {
	// Driver is log|nats|rabbitmq.
	Driver        string `mapstructure:"driver"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	Exchange      string `mapstructure:"exchange"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Load reads defaults, then an optional .env file, then the config file, then
// WS_* environment variables, later sources winning.
func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	if err := godotenv.Load(); err == nil {
		logging.Info(logCtx, "loaded .env file")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is found.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else if configFile != "" && isMissingFile(err) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env", slog.String("path", configFile))
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("notify_driver", cfg.Notify.Driver),
		slog.String("company_id", cfg.Workshop.CompanyID),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Workshop.CompanyID) == "" {
		return errors.New("workshop.company_id is required")
	}
	if c.Workshop.BusyRetries < 0 {
		return errors.New("workshop.busy_retries must be >= 0")
	}
	switch strings.ToLower(c.Notify.Driver) {
	case "", "log", "nats", "rabbitmq":
	default:
		return fmt.Errorf("unsupported notify.driver %q", c.Notify.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "workshopd")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".workshop/state/workshop.sqlite")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("workshop.company_id", "default")
	v.SetDefault("workshop.lock_timeout", "2s")
	v.SetDefault("workshop.busy_retries", 3)
	v.SetDefault("workshop.history_cache_ttl", "5m")
	v.SetDefault("notify.driver", "log")
	v.SetDefault("notify.url", "")
	v.SetDefault("notify.subject_prefix", "")
	v.SetDefault("notify.exchange", "workshop.events")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
}
