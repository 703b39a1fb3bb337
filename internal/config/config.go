// Package config loads cloudadvisor settings from defaults, an optional
// YAML file and CLOUDADVISOR_* environment variables, using viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HerbHall/cloudadvisor/internal/diagram"
	"github.com/HerbHall/cloudadvisor/internal/recommend"
	"github.com/HerbHall/cloudadvisor/internal/scrape"
	"github.com/HerbHall/cloudadvisor/internal/server"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

// EnvPrefix prefixes environment overrides, e.g. CLOUDADVISOR_SERVER_PORT.
const EnvPrefix = "CLOUDADVISOR"

// Catalog source kinds.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourceScrape   = "scrape"
)

// Config wraps a viper instance with typed accessors.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil v is replaced by an empty viper instance.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *Config) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree at key. A missing key yields an empty Config,
// never nil.
func (c *Config) Sub(key string) *Config {
	return New(c.v.Sub(key))
}

// Unmarshal decodes the whole config into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// ConfigFile returns the file the config was read from, if any.
func (c *Config) ConfigFile() string {
	return c.v.ConfigFileUsed()
}

// AppConfig is the decoded application configuration.
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Diagram   DiagramConfig   `mapstructure:"diagram"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// CatalogConfig selects and configures the catalog source.
type CatalogConfig struct {
	Source string        `mapstructure:"source"`
	Path   string        `mapstructure:"path"`
	URL    string        `mapstructure:"url"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RecommendConfig holds selection defaults.
type RecommendConfig struct {
	MinScore int    `mapstructure:"min_score"`
	TopN     int    `mapstructure:"top_n"`
	Scoring  string `mapstructure:"scoring"`
}

// DiagramConfig configures the external diagram rasterizer.
type DiagramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RPS      float64       `mapstructure:"rps"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
			RateLimit: RateLimitConfig{
				RPS:   server.DefaultRateLimitRPS,
				Burst: server.DefaultRateLimitBurst,
			},
		},
		Catalog: CatalogConfig{
			Source: SourceEmbedded,
			Path:   "cloudadvisor.db",
			URL:    scrape.DefaultURL,
			TTL:    catalog.DefaultTTL,
		},
		Recommend: RecommendConfig{
			MinScore: recommend.DefaultMinScore,
			TopN:     recommend.DefaultTopN,
			Scoring:  string(recommend.ScoringCompat),
		},
		Diagram: DiagramConfig{
			Enabled:  false,
			Endpoint: diagram.DefaultEndpoint,
			Timeout:  diagram.DefaultTimeout,
			RPS:      diagram.DefaultRPS,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SetDefaults registers every default on v so environment overrides and
// Unmarshal see all keys.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit.rps", d.Server.RateLimit.RPS)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.url", d.Catalog.URL)
	v.SetDefault("catalog.ttl", d.Catalog.TTL)
	v.SetDefault("recommend.min_score", d.Recommend.MinScore)
	v.SetDefault("recommend.top_n", d.Recommend.TopN)
	v.SetDefault("recommend.scoring", d.Recommend.Scoring)
	v.SetDefault("diagram.enabled", d.Diagram.Enabled)
	v.SetDefault("diagram.endpoint", d.Diagram.Endpoint)
	v.SetDefault("diagram.timeout", d.Diagram.Timeout)
	v.SetDefault("diagram.rps", d.Diagram.RPS)
	v.SetDefault("log.level", d.Log.Level)
}

// Load builds a Config from defaults, the YAML file at path (or
// ./cloudadvisor.yaml when path is empty and the file exists), and the
// environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return New(v), nil
	}

	v.SetConfigName("cloudadvisor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	return New(v), nil
}

// App decodes and validates the application config.
func (c *Config) App() (AppConfig, error) {
	cfg := DefaultConfig()
	if err := c.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (a AppConfig) Validate() error {
	if a.Server.Port < 0 || a.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", a.Server.Port)
	}
	switch a.Catalog.Source {
	case SourceEmbedded, SourceScrape:
	case SourceFile, SourceSQLite:
		if a.Catalog.Path == "" {
			return fmt.Errorf("config: catalog.path is required for source %q", a.Catalog.Source)
		}
	default:
		return fmt.Errorf("config: unknown catalog.source %q", a.Catalog.Source)
	}
	if _, err := recommend.ParseScoringMode(a.Recommend.Scoring); err != nil {
		return fmt.Errorf("config: recommend.scoring: %w", err)
	}
	if a.Recommend.MinScore < 1 {
		return fmt.Errorf("config: recommend.min_score must be >= 1")
	}
	if a.Recommend.TopN < 1 || a.Recommend.TopN > recommend.MaxTopN {
		return fmt.Errorf("config: recommend.top_n must be between 1 and %d", recommend.MaxTopN)
	}
	return nil
}

// Options returns the selection defaults.
func (r RecommendConfig) Options() recommend.Options {
	return recommend.Options{MinScore: r.MinScore, TopN: r.TopN}
}
