// Package config loads the configuration of the strknn command.
//
// Values come from (highest precedence first) bound command-line flags,
// STRKNN_* environment variables, a strknn.yaml file and built-in defaults.
// Nested keys map to environment variables by replacing dots with
// underscores: engine.cache_size is STRKNN_ENGINE_CACHE_SIZE.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/unicode/norm"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/matcher"
	"github.com/hupe1980/strknn/resource"
)

// EnvPrefix prefixes environment variable names.
const EnvPrefix = "STRKNN"

// Config is the full command configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Engine EngineConfig `mapstructure:"engine"`
	Limits LimitsConfig `mapstructure:"limits"`
	Server ServerConfig `mapstructure:"server"`
	// Corpus lists files loaded into the engine at startup.
	Corpus []string `mapstructure:"corpus"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// EngineConfig mirrors the engine options.
type EngineConfig struct {
	Parallelism     int           `mapstructure:"parallelism"`
	CacheSize       int           `mapstructure:"cache_size"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	MaxEntries      int           `mapstructure:"max_entries"`
	SetStrategy     string        `mapstructure:"set_strategy"`  // exact or greedy
	Normalization   string        `mapstructure:"normalization"` // nfc, nfd, nfkc or nfkd
	KeepPunctuation bool          `mapstructure:"keep_punctuation"`
}

// LimitsConfig configures admission control. All zero disables it.
type LimitsConfig struct {
	MaxConcurrentQueries   int64   `mapstructure:"max_concurrent_queries"`
	QueriesPerSecond       float64 `mapstructure:"queries_per_second"`
	QueryBurst             int     `mapstructure:"query_burst"`
	UploadStringsPerSecond float64 `mapstructure:"upload_strings_per_second"`
	UploadBurst            int     `mapstructure:"upload_burst"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	Debug           bool          `mapstructure:"debug"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	MaxK            int           `mapstructure:"max_k"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("engine.parallelism", 0)
	v.SetDefault("engine.cache_size", strknn.DefaultCacheSize)
	v.SetDefault("engine.query_timeout", time.Duration(0))
	v.SetDefault("engine.max_entries", 0)
	v.SetDefault("engine.set_strategy", "exact")
	v.SetDefault("engine.normalization", "nfc")
	v.SetDefault("engine.keep_punctuation", false)

	v.SetDefault("limits.max_concurrent_queries", 0)
	v.SetDefault("limits.queries_per_second", 0.0)
	v.SetDefault("limits.query_burst", 0)
	v.SetDefault("limits.upload_strings_per_second", 0.0)
	v.SetDefault("limits.upload_burst", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.enable_cors", false)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(32<<20))
	v.SetDefault("server.max_k", 1000)

	v.SetDefault("corpus", []string{})
}

// Load reads the configuration into a Config.
//
// If path is empty, strknn.yaml is searched in the working directory and in
// $HOME/.config/strknn; a missing file is not an error. An explicit path
// must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("strknn")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/strknn")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the engine options cannot check themselves.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := ParseSetStrategy(c.Engine.SetStrategy); err != nil {
		return err
	}
	if _, err := ParseNormalization(c.Engine.Normalization); err != nil {
		return err
	}
	if c.Server.MaxK < 1 {
		return fmt.Errorf("config: server.max_k must be >= 1, got %d", c.Server.MaxK)
	}
	return nil
}

// SlogLevel parses the log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// Logger builds the configured logger writing to stderr.
func (l LogConfig) Logger() (*strknn.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(l.Format, "json") {
		return strknn.NewJSONLogger(level), nil
	}
	return strknn.NewTextLogger(level), nil
}

// ParseSetStrategy parses "exact" or "greedy".
func ParseSetStrategy(s string) (matcher.SetStrategy, error) {
	switch strings.ToLower(s) {
	case "", "exact", "hungarian":
		return matcher.SetExact, nil
	case "greedy", "approximate":
		return matcher.SetApproximate, nil
	default:
		return 0, fmt.Errorf("config: engine.set_strategy must be exact or greedy, got %q", s)
	}
}

// ParseNormalization parses a Unicode normalization form name.
func ParseNormalization(s string) (norm.Form, error) {
	switch strings.ToLower(s) {
	case "", "nfc":
		return norm.NFC, nil
	case "nfd":
		return norm.NFD, nil
	case "nfkc":
		return norm.NFKC, nil
	case "nfkd":
		return norm.NFKD, nil
	default:
		return 0, fmt.Errorf("config: engine.normalization must be one of nfc, nfd, nfkc, nfkd, got %q", s)
	}
}

// ResourceConfig converts the limits. ok is false when no limit is set.
func (l LimitsConfig) ResourceConfig() (cfg resource.Config, ok bool) {
	cfg = resource.Config{
		MaxConcurrentQueries:   l.MaxConcurrentQueries,
		QueriesPerSecond:       l.QueriesPerSecond,
		QueryBurst:             l.QueryBurst,
		UploadStringsPerSecond: l.UploadStringsPerSecond,
		UploadBurst:            l.UploadBurst,
	}
	return cfg, cfg != resource.Config{}
}

// EngineOptions converts the configuration into engine options, including
// the logger. Extra options are appended last.
func (c *Config) EngineOptions(extra ...strknn.Option) ([]strknn.Option, error) {
	logger, err := c.Log.Logger()
	if err != nil {
		return nil, err
	}
	strategy, err := ParseSetStrategy(c.Engine.SetStrategy)
	if err != nil {
		return nil, err
	}
	form, err := ParseNormalization(c.Engine.Normalization)
	if err != nil {
		return nil, err
	}

	opts := []strknn.Option{
		strknn.WithLogger(logger),
		strknn.WithParallelism(c.Engine.Parallelism),
		strknn.WithCacheSize(c.Engine.CacheSize),
		strknn.WithQueryTimeout(c.Engine.QueryTimeout),
		strknn.WithMaxEntries(c.Engine.MaxEntries),
		strknn.WithSetStrategy(strategy),
		strknn.WithNormalization(form),
		strknn.WithKeepPunctuation(c.Engine.KeepPunctuation),
	}
	if rc, ok := c.Limits.ResourceConfig(); ok {
		opts = append(opts, strknn.WithResourceConfig(rc))
	}
	return append(opts, extra...), nil
}
