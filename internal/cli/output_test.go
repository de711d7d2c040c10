package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and empty parts", " svg , ,png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "trip/album.toml", "trip/album"},
		{"explicit base", "out/grid", "album.toml", "out/grid"},
		{"strip format extension", "out/grid.svg", "album.toml", "out/grid"},
		{"keep unknown extension", "out/grid.v2", "album.toml", "out/grid.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   []string{"svg", "json"},
		input:     filepath.Join(dir, "album.toml"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}

	want := []string{filepath.Join(dir, "album.svg"), filepath.Join(dir, "album.json")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
	}

	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}
}

func TestWriteArtifactsSortsWithoutFormats(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "json": nil, "png": nil},
		output:    filepath.Join(dir, "grid"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 || filepath.Ext(paths[0]) != ".json" || filepath.Ext(paths[2]) != ".svg" {
		t.Errorf("paths = %v, want json, png, svg", paths)
	}
}

func TestWriteArtifactsStdoutNeedsOneFormat(t *testing.T) {
	_, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": nil, "json": nil},
		formats:   []string{"svg", "json"},
		output:    stdoutPath,
	})
	if err == nil {
		t.Error("expected error for two formats on stdout")
	}
}
