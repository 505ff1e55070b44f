package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type NotifyConfig struct {
	Workers        int           `env:"NOTIFY_WORKERS" env-default:"4"`
	Buffer         int           `env:"NOTIFY_BUFFER" env-default:"64"`
	HandoffTimeout time.Duration `env:"NOTIFY_HANDOFF_TIMEOUT" env-default:"15ms"`
	Timeout        time.Duration `env:"NOTIFY_TIMEOUT" env-default:"10s"`
}

type Config struct {
	Debug      bool   `env:"DEBUG" env-default:"false"`
	LogFormat  string `env:"LOG_FORMAT" env-default:"text"`
	ListenAddr string `env:"LISTEN_ADDR"`
	Port       string `env:"FUNCTIONS_CUSTOMHANDLER_PORT" env-default:"8080"`
	BoardID    string `env:"BOARD_ID" env-default:"default"`

	StorageConnectionString string `env:"STORAGE_CONNECTION_STRING"`
	SettingsTable           string `env:"SETTINGS_TABLE" env-default:"BoardSettings"`
	EventsQueue             string `env:"EVENTS_QUEUE"`

	RedisConnectionString string        `env:"REDIS_CONNECTION_STRING"`
	SettingsCacheTTL      time.Duration `env:"SETTINGS_CACHE_TTL" env-default:"5m"`
	EventsChannel         string        `env:"EVENTS_CHANNEL"`
	DeduperTTL            time.Duration `env:"DEDUPER_TTL" env-default:"24h"`

	Notify NotifyConfig

	SeedSampleTasks   bool   `env:"SEED_SAMPLE_TASKS" env-default:"false"`
	DefaultWebhookURL string `env:"DEFAULT_WEBHOOK_URL"`
}

// Load reads the configuration from the environment after loading the given
// dotenv files (".env" when none are named). Missing files are ignored and
// variables already set win over file values.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the HTTP listen address. LISTEN_ADDR wins over the port.
func (c *Config) Addr() string {
	if c.ListenAddr != "" {
		return c.ListenAddr
	}
	return ":" + c.Port
}

func (c *Config) validate() error {
	var errs []error
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat))
	}
	if c.BoardID == "" {
		errs = append(errs, errors.New("BOARD_ID must not be empty"))
	}
	if c.DeduperTTL <= 0 {
		errs = append(errs, errors.New("invalid DEDUPER_TTL: must be greater than zero"))
	}
	if c.SettingsCacheTTL < 0 {
		errs = append(errs, errors.New("invalid SETTINGS_CACHE_TTL: must not be negative"))
	}
	if c.Notify.Workers <= 0 {
		errs = append(errs, errors.New("invalid NOTIFY_WORKERS: must be greater than zero"))
	}
	if c.Notify.Buffer < 0 {
		errs = append(errs, errors.New("invalid NOTIFY_BUFFER: must not be negative"))
	}
	if c.Notify.Timeout <= 0 {
		errs = append(errs, errors.New("invalid NOTIFY_TIMEOUT: must be greater than zero"))
	}
	return errors.Join(errs...)
}
