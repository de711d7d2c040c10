package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/albumgrid/internal/server"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// Cache backends.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Store backends.
const (
	storeMemory = "memory"
	storeMongo  = "mongo"
)

// envPrefix prefixes environment overrides, e.g. ALBUMGRID_CACHE_BACKEND for
// cache.backend.
const envPrefix = "ALBUMGRID"

// Config is the CLI and server configuration.
type Config struct {
	Layout LayoutConfig `mapstructure:"layout" toml:"layout"`
	Render RenderConfig `mapstructure:"render" toml:"render"`
	Cache  CacheConfig  `mapstructure:"cache" toml:"cache"`
	Server ServerConfig `mapstructure:"server" toml:"server"`
}

// LayoutConfig holds default layout constraints.
type LayoutConfig struct {
	MaxWidth  float64 `mapstructure:"max_width" toml:"max_width"`
	MinWidth  float64 `mapstructure:"min_width" toml:"min_width"`
	Spacing   float64 `mapstructure:"spacing" toml:"spacing"`
	MaxHeight float64 `mapstructure:"max_height" toml:"max_height"`
}

// RenderConfig holds default render options.
type RenderConfig struct {
	Formats    []string `mapstructure:"formats" toml:"formats"`
	Radius     float64  `mapstructure:"radius" toml:"radius"`
	Background string   `mapstructure:"background" toml:"background"`
	Scale      float64  `mapstructure:"scale" toml:"scale"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `mapstructure:"backend" toml:"backend"`
	Dir           string `mapstructure:"dir" toml:"dir"`
	RedisAddr     string `mapstructure:"redis_addr" toml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" toml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" toml:"redis_db"`
	Prefix        string `mapstructure:"prefix" toml:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" toml:"addr"`
	Store          string        `mapstructure:"store" toml:"store"`
	MongoURI       string        `mapstructure:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase  string        `mapstructure:"mongo_database" toml:"mongo_database"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" toml:"request_timeout"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			MaxWidth: pipeline.DefaultMaxWidth,
			MinWidth: pipeline.DefaultMinWidth,
			Spacing:  pipeline.DefaultSpacing,
		},
		Render: RenderConfig{
			Formats: []string{pipeline.FormatSVG},
			Radius:  pipeline.DefaultRadius,
			Scale:   pipeline.DefaultScale,
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    appName + ":",
		},
		Server: ServerConfig{
			Addr:           server.DefaultAddr,
			Store:          storeMemory,
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  appName,
			RequestTimeout: server.DefaultRequestTimeout,
		},
	}
}

// setDefaults registers DefaultConfig with v so that env overrides work for
// keys absent from the config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("layout.max_width", d.Layout.MaxWidth)
	v.SetDefault("layout.min_width", d.Layout.MinWidth)
	v.SetDefault("layout.spacing", d.Layout.Spacing)
	v.SetDefault("layout.max_height", d.Layout.MaxHeight)

	v.SetDefault("render.formats", d.Render.Formats)
	v.SetDefault("render.radius", d.Render.Radius)
	v.SetDefault("render.background", d.Render.Background)
	v.SetDefault("render.scale", d.Render.Scale)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.prefix", d.Cache.Prefix)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.store", d.Server.Store)
	v.SetDefault("server.mongo_uri", d.Server.MongoURI)
	v.SetDefault("server.mongo_database", d.Server.MongoDatabase)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
}

// loadConfig reads the configuration. An empty path searches the default
// config directory, where a missing file is not an error. An explicit path
// must exist.
func loadConfig(path string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// Validate checks enumerated fields and render defaults.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Server.Store {
	case storeMemory, storeMongo:
	default:
		return fmt.Errorf("server.store: unknown store %q (must be memory or mongo)", c.Server.Store)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return fmt.Errorf("render.formats: %w", err)
	}
	return nil
}

// ApplyTo fills zero options from the configuration. Callers apply flags
// and album constraints first, so the precedence is flag, album, config file,
// built-in default.
func (c *Config) ApplyTo(o *pipeline.Options) {
	c.applyLayout(o)
	c.applyRender(o)
}

// applyLayout fills unset layout options. The configured min width and
// spacing always carry a value (viper defaults), so zero there is explicit.
// A configured min width is capped at the resolved max width, as the built-in
// default is.
func (c *Config) applyLayout(o *pipeline.Options) {
	fill(&o.MaxWidth, c.Layout.MaxWidth)
	if o.MinWidth == nil {
		minWidth := c.Layout.MinWidth
		if o.MaxWidth > 0 {
			minWidth = min(minWidth, o.MaxWidth)
		}
		o.MinWidth = pipeline.Float(minWidth)
	}
	if o.Spacing == nil {
		o.Spacing = pipeline.Float(c.Layout.Spacing)
	}
	fill(&o.MaxHeight, c.Layout.MaxHeight)
}

func (c *Config) applyRender(o *pipeline.Options) {
	fill(&o.Radius, c.Render.Radius)
	fill(&o.Scale, c.Render.Scale)
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), c.Render.Formats...)
	}
	if o.Background == "" {
		o.Background = c.Render.Background
	}
}

// Constraints returns the configured layout constraints.
func (c *Config) Constraints() grouped.Constraints {
	return grouped.Constraints{
		MaxWidth:  c.Layout.MaxWidth,
		MinWidth:  c.Layout.MinWidth,
		Spacing:   c.Layout.Spacing,
		MaxHeight: c.Layout.MaxHeight,
	}
}

func fill(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}

// configDir returns the config directory using XDG standard (~/.config/albumgrid/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), c.configPath)
				return nil
			}
			dir, err := configDir()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, "config.toml"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.config)
		},
	})

	return cmd
}
