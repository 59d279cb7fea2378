package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string        `yaml:"port"`
	UpstreamTimeout time.Duration `yaml:"-"`

	// Catalog source, e.g. https://fakestoreapi.com + /products
	CatalogURL  string `yaml:"catalogUrl"`
	CatalogPath string `yaml:"catalogPath"`

	CORSAllowOrigins []string `yaml:"corsAllowOrigins"`

	LogLevel string `yaml:"logLevel"`

	// Cart activity events; publishing is off unless both are set.
	RabbitMQURL   string `yaml:"rabbitmqUrl"`
	PublishEvents bool   `yaml:"publishEvents"`

	UndoDepth int `yaml:"undoDepth"`
}

// fileConfig mirrors Config for YAML, keeping durations as strings ("10s").
type fileConfig struct {
	Config          `yaml:",inline"`
	UpstreamTimeout string `yaml:"upstreamTimeout"`
}

func Defaults() Config {
	return Config{
		Port:             "8080",
		UpstreamTimeout:  10 * time.Second,
		CatalogURL:       "https://fakestoreapi.com",
		CatalogPath:      "/products",
		CORSAllowOrigins: []string{"*"},
		LogLevel:         "info",
		UndoDepth:        50,
	}
}

// Load builds the config from defaults, then the optional YAML file at path, then the
// environment. Environment variables win.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("STOREFRONT_CONFIG"))
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	fc := fileConfig{Config: *cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	*cfg = fc.Config
	if fc.UpstreamTimeout != "" {
		cfg.UpstreamTimeout = parseDuration(fc.UpstreamTimeout, cfg.UpstreamTimeout)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.UpstreamTimeout = parseDuration(getenv("UPSTREAM_TIMEOUT", ""), cfg.UpstreamTimeout)
	cfg.CatalogURL = getenv("CATALOG_URL", cfg.CatalogURL)
	cfg.CatalogPath = getenv("CATALOG_PATH", cfg.CatalogPath)
	if v := getenv("CORS_ALLOW_ORIGINS", ""); v != "" {
		cfg.CORSAllowOrigins = splitCSV(v)
	}
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.RabbitMQURL = getenv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.PublishEvents = parseBool(getenv("PUBLISH_EVENTS", ""), cfg.PublishEvents)
	cfg.UndoDepth = parseInt(getenv("UNDO_DEPTH", ""), cfg.UndoDepth)

	if len(cfg.CORSAllowOrigins) == 0 {
		cfg.CORSAllowOrigins = []string{"*"}
	}
}

// EventsEnabled reports whether cart changes should go to RabbitMQ.
func (c Config) EventsEnabled() bool {
	return c.PublishEvents && c.RabbitMQURL != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}
