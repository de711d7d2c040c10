package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		env  string
		val  string
		fn   func() (string, error)
		want string
	}{
		{
			name: "cache default",
			env:  "XDG_CACHE_HOME",
			fn:   cacheDir,
			want: filepath.Join(home, ".cache", appName),
		},
		{
			name: "cache from XDG_CACHE_HOME",
			env:  "XDG_CACHE_HOME",
			val:  "/tmp/xdg-cache",
			fn:   cacheDir,
			want: filepath.Join("/tmp/xdg-cache", appName),
		},
		{
			name: "config default",
			env:  "XDG_CONFIG_HOME",
			fn:   configDir,
			want: filepath.Join(home, ".config", appName),
		},
		{
			name: "config from XDG_CONFIG_HOME",
			env:  "XDG_CONFIG_HOME",
			val:  "/tmp/xdg-config",
			fn:   configDir,
			want: filepath.Join("/tmp/xdg-config", appName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// An empty value falls through to the home directory.
			t.Setenv(tt.env, tt.val)

			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCLICacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{name: "no config", want: filepath.Join("/tmp/xdg-cache", appName)},
		{name: "config without dir", cfg: DefaultConfig(), want: filepath.Join("/tmp/xdg-cache", appName)},
		{
			name: "configured dir",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.Cache.Dir = "/srv/albumgrid/cache"
				return cfg
			}(),
			want: "/srv/albumgrid/cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CLI{config: tt.cfg}
			got, err := c.cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
