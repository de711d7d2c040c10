package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

const testConfig = `
[layout]
max_width = 360
spacing = 4

[render]
formats = ["png", "json"]
background = "#101418"

[cache]
backend = "redis"
redis_addr = "cache:6379"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, used, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want no file", used)
	}
	want := DefaultConfig()
	if cfg.Layout != want.Layout {
		t.Errorf("Layout = %+v, want %+v", cfg.Layout, want.Layout)
	}
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cacheBackendFile)
	}
	if cfg.Server.Store != storeMemory {
		t.Errorf("Server.Store = %q, want %q", cfg.Server.Store, storeMemory)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, testConfig)

	cfg, used, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Layout.MaxWidth != 360 || cfg.Layout.Spacing != 4 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Layout.MinWidth != pipeline.DefaultMinWidth {
		t.Errorf("MinWidth = %v, want default %v", cfg.Layout.MinWidth, pipeline.DefaultMinWidth)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[0] != "png" {
		t.Errorf("Formats = %v", cfg.Render.Formats)
	}
	if cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, testConfig)
	t.Setenv("ALBUMGRID_CACHE_BACKEND", "none")
	t.Setenv("ALBUMGRID_LAYOUT_MAX_WIDTH", "512")

	cfg, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != cacheBackendNone {
		t.Errorf("Cache.Backend = %q, want env override %q", cfg.Cache.Backend, cacheBackendNone)
	}
	if cfg.Layout.MaxWidth != 512 {
		t.Errorf("MaxWidth = %v, want env override 512", cfg.Layout.MaxWidth)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing explicit file", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "absent.toml")
		}},
		{"malformed", func(t *testing.T) string {
			return writeConfig(t, "[layout\nmax_width = ")
		}},
		{"unknown backend", func(t *testing.T) string {
			return writeConfig(t, "[cache]\nbackend = \"memcached\"\n")
		}},
		{"unknown store", func(t *testing.T) string {
			return writeConfig(t, "[server]\nstore = \"postgres\"\n")
		}},
		{"unknown format", func(t *testing.T) string {
			return writeConfig(t, "[render]\nformats = [\"pdf\"]\n")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := loadConfig(tt.path(t)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyTo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout.MaxWidth = 360
	cfg.Render.Background = "#000000"

	opts := pipeline.Options{MaxWidth: 500, Formats: []string{"png"}}
	cfg.ApplyTo(&opts)

	if opts.MaxWidth != 500 {
		t.Errorf("MaxWidth = %v, explicit value should win", opts.MaxWidth)
	}
	if got := opts.Constraints().MinWidth; got != pipeline.DefaultMinWidth {
		t.Errorf("MinWidth = %v, want %v", got, pipeline.DefaultMinWidth)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "png" {
		t.Errorf("Formats = %v, explicit formats should win", opts.Formats)
	}
	if opts.Background != "#000000" {
		t.Errorf("Background = %q", opts.Background)
	}

	gapless := pipeline.Options{Spacing: pipeline.Float(0)}
	cfg.ApplyTo(&gapless)
	if got := gapless.Constraints().Spacing; got != 0 {
		t.Errorf("Spacing = %v, explicit zero should be kept", got)
	}

	narrow := pipeline.Options{MaxWidth: 60}
	cfg.ApplyTo(&narrow)
	if got := narrow.Constraints().MinWidth; got != 60 {
		t.Errorf("MinWidth = %v, configured min width should be capped at max width", got)
	}

	cfg.Layout.MinWidth = 0
	cfg.Layout.Spacing = 0
	var fromConfig pipeline.Options
	cfg.ApplyTo(&fromConfig)
	if c := fromConfig.Constraints(); c.MinWidth != 0 || c.Spacing != 0 {
		t.Errorf("configured zeros = %+v, want min width and spacing 0", c)
	}
}

func TestResolveOptionsPrecedence(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.config.Layout.MaxWidth = 360
	c.config.Layout.MinWidth = 80
	c.config.Layout.Spacing = 6

	a := &album.Album{Layout: &album.Layout{MaxWidth: 300, MinWidth: pipeline.Float(120)}}
	zeros := &album.Album{Layout: &album.Layout{MaxWidth: 300, MinWidth: pipeline.Float(0), Spacing: pipeline.Float(0)}}

	tests := []struct {
		name  string
		album *album.Album
		flags map[string]string
		want  grouped.Constraints
	}{
		{"config only", &album.Album{}, nil, grouped.Constraints{MaxWidth: 360, MinWidth: 80, Spacing: 6}},
		{"album over config", a, nil, grouped.Constraints{MaxWidth: 300, MinWidth: 120, Spacing: 6}},
		{"flag over album", a, map[string]string{"max-width": "500"}, grouped.Constraints{MaxWidth: 500, MinWidth: 120, Spacing: 6}},
		{"explicit zero spacing", a, map[string]string{"spacing": "0"}, grouped.Constraints{MaxWidth: 300, MinWidth: 120}},
		{"explicit zero min width", a, map[string]string{"min-width": "0"}, grouped.Constraints{MaxWidth: 300, Spacing: 6}},
		{"album zeros over config", zeros, nil, grouped.Constraints{MaxWidth: 300}},
		{"flag over album zeros", zeros, map[string]string{"min-width": "40", "spacing": "3"}, grouped.Constraints{MaxWidth: 300, MinWidth: 40, Spacing: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts pipeline.Options
			cmd := &cobra.Command{Use: "test"}
			addLayoutFlags(cmd, &opts)
			for k, v := range tt.flags {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatal(err)
				}
			}

			got, err := c.resolveOptions(cmd, tt.album, opts)
			if err != nil {
				t.Fatalf("resolveOptions: %v", err)
			}
			if err := got.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if got.Constraints() != tt.want {
				t.Errorf("constraints = %+v, want %+v", got.Constraints(), tt.want)
			}
		})
	}
}

func TestConfigDirXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, appName); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}
}
