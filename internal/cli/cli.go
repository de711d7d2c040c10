package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/buildinfo"
	"github.com/matzehuels/albumgrid/pkg/cache"
	"github.com/matzehuels/albumgrid/pkg/observability"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "albumgrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; config is loaded before any command runs.
	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Albumgrid arranges media groups into message-style grids",
		Long:         `Albumgrid computes the tile layout of grouped media (photo albums) the way chat apps show them: one to twelve images packed into a bubble of bounded width, with rounded corners only on the outer edge.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/albumgrid/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. Debug logging also routes observability events to the logger.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, used, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.InstallLogHooks(c.Logger)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cfg := c.config.Cache
	if noCache || cfg.Backend == cacheBackendNone {
		return cache.NewNullCache(), nil, nil
	}

	switch cfg.Backend {
	case cacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, cache.NewScopedKeyer(nil, cfg.Prefix), nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, nil, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.config != nil && c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/albumgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// addLayoutFlags registers layout constraint flags. Unset flags stay zero so
// that album and config values can fill them. min-width and spacing accept
// zero, so they are read with applyLayoutFlags only when given.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&opts.MaxWidth, "max-width", 0, fmt.Sprintf("group width in pixels (default %g)", pipeline.DefaultMaxWidth))
	f.Float64("min-width", 0, fmt.Sprintf("narrowest row without penalty (default %g)", pipeline.DefaultMinWidth))
	f.Float64("spacing", 0, fmt.Sprintf("gap between tiles (default %g)", pipeline.DefaultSpacing))
	f.Float64Var(&opts.MaxHeight, "max-height", 0, "target group height (default: derived from max width)")
}

// applyLayoutFlags copies min-width and spacing into opts when they were set
// on the command line, including an explicit zero.
func applyLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) error {
	for _, fl := range []struct {
		name string
		dst  **float64
	}{
		{"min-width", &opts.MinWidth},
		{"spacing", &opts.Spacing},
	} {
		if !cmd.Flags().Changed(fl.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(fl.name)
		if err != nil {
			return err
		}
		*fl.dst = pipeline.Float(v)
	}
	return nil
}

// addRenderFlags registers output flags.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	f := cmd.Flags()
	f.StringVarP(formats, "format", "f", "", "output format(s): svg, png, json (comma-separated)")
	f.Float64Var(&opts.Radius, "radius", 0, fmt.Sprintf("outer corner radius (default %g)", pipeline.DefaultRadius))
	f.Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 1)")
	f.StringVar(&opts.Background, "background", "", "background color as hex, e.g. #101418")
	f.BoolVar(&opts.DrawImages, "images", false, "draw the source images into the tiles")
	f.BoolVar(&opts.Labels, "labels", false, "label tiles with their index (svg)")
}

// resolveOptions combines flags, album constraints and configuration, in that
// order of precedence.
func (c *CLI) resolveOptions(cmd *cobra.Command, a *album.Album, opts pipeline.Options) (pipeline.Options, error) {
	if err := applyLayoutFlags(cmd, &opts); err != nil {
		return opts, err
	}
	opts.ApplyAlbum(a)
	c.config.ApplyTo(&opts)
	opts.Logger = c.Logger
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so that the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// basePath derives the output path prefix for artifacts. An explicit output
// wins, with a known format extension stripped; otherwise the input's
// extension is replaced.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
