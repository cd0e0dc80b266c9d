package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the API server and workers.
type Config struct {
	Addr string `mapstructure:"addr"`

	// Backend selects the order store: "file" or "feed".
	Backend string `mapstructure:"backend"`

	// FeedKind selects the feed implementation when Backend is "feed":
	// "gviz" reads a published spreadsheet export, "dynamo" reads DynamoDB.
	FeedKind string `mapstructure:"feed_kind"`

	// UseQueue routes feed submissions through SQS instead of writing the
	// feed directly. Only meaningful for the dynamo feed.
	UseQueue bool   `mapstructure:"use_queue"`
	QueueURL string `mapstructure:"queue_url"`

	OrdersFile string `mapstructure:"orders_file"`
	CacheFile  string `mapstructure:"cache_file"`

	FeedURL string `mapstructure:"feed_url"`
	FormURL string `mapstructure:"form_url"`

	FeedTable        string        `mapstructure:"feed_table"`
	SubmissionsTable string        `mapstructure:"submissions_table"`
	SubmissionTTL    time.Duration `mapstructure:"submission_ttl"`

	MenuURL     string `mapstructure:"menu_url"`
	ToppingsURL string `mapstructure:"toppings_url"`

	CustomerPollInterval time.Duration `mapstructure:"customer_poll_interval"`
	StaffPollInterval    time.Duration `mapstructure:"staff_poll_interval"`

	MetricsEnabled   bool   `mapstructure:"metrics_enabled"`
	MetricsNamespace string `mapstructure:"metrics_namespace"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration using Viper. A config file is optional; every
// key can also come from the environment (CAFE_BACKEND, CAFE_FEED_URL, ...).
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		v.SetConfigName("cafe")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CAFE")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("backend", "file")
	v.SetDefault("feed_kind", "gviz")
	v.SetDefault("use_queue", false)
	v.SetDefault("orders_file", "data/orders.json")
	v.SetDefault("cache_file", "data/cache.json")
	v.SetDefault("feed_table", "cafe-feed")
	v.SetDefault("submissions_table", "cafe-submissions")
	v.SetDefault("submission_ttl", 48*time.Hour)
	v.SetDefault("customer_poll_interval", 10*time.Second)
	v.SetDefault("staff_poll_interval", 30*time.Second)
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_namespace", "CafeOrderflow")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine when relying on env and defaults,
		// but an explicitly named file must exist.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "file", "feed":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Backend == "feed" {
		switch c.FeedKind {
		case "gviz":
			if c.FeedURL == "" {
				return fmt.Errorf("feed_url is required for the gviz feed")
			}
			if c.FormURL == "" {
				return fmt.Errorf("form_url is required for the gviz feed")
			}
		case "dynamo":
			if c.FeedTable == "" || c.SubmissionsTable == "" {
				return fmt.Errorf("feed_table and submissions_table are required for the dynamo feed")
			}
			if c.UseQueue && c.QueueURL == "" {
				return fmt.Errorf("queue_url is required when use_queue is set")
			}
		default:
			return fmt.Errorf("unknown feed_kind %q", c.FeedKind)
		}
	}
	return nil
}
