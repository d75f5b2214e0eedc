package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Check struct {
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

type Alert struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

type API struct {
	Addr      string   `mapstructure:"addr"`
	AdminKeys []string `mapstructure:"admin_keys"`
	RateRPM   int      `mapstructure:"rate_rpm"`
	RateBurst int      `mapstructure:"rate_burst"`
}

// Service is one static registry entry, used to seed the in-memory store
// when no database is configured. With a database the registry lives there
// and this list is ignored.
type Service struct {
	ID    string `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	Type  string `mapstructure:"type"`
	URL   string `mapstructure:"url"`
	Group string `mapstructure:"group"`
}

type Config struct {
	API          API           `mapstructure:"api"`
	Check        Check         `mapstructure:"check"`
	Alert        Alert         `mapstructure:"alert"`
	Services     []Service     `mapstructure:"services"`
	DatabaseURL  string        `mapstructure:"database_url"` // empty means in-memory store
	UptimeWindow time.Duration `mapstructure:"uptime_window"`
	LogDir       string        `mapstructure:"log_dir"`
	LogLevel     string        `mapstructure:"log_level"`
}

// Load reads an optional YAML file and lets the environment override every
// key (dots become underscores: api.addr -> API_ADDR).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("api.addr", ":8080")
	v.SetDefault("api.admin_keys", []string{})
	v.SetDefault("api.rate_rpm", 120)
	v.SetDefault("api.rate_burst", 60)

	v.SetDefault("check.interval", "10m")
	v.SetDefault("check.timeout", "10s")
	v.SetDefault("check.concurrency", 8)

	v.SetDefault("alert.webhook_url", "")

	v.SetDefault("database_url", "")
	v.SetDefault("uptime_window", "24h")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
