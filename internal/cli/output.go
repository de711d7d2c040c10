package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// stdoutPath selects standard output as the destination of a single artifact.
const stdoutPath = "-"

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeFile writes data to path (or stdout for "-").
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format, named <base>.<format>, and
// returns the written paths in format order. With a single format, output
// "-" streams the artifact to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	formats := p.formats
	if len(formats) == 0 {
		for f := range p.artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
	}

	if p.output == stdoutPath {
		if len(formats) != 1 {
			return nil, fmt.Errorf("output to stdout needs exactly one format, got %d", len(formats))
		}
		return []string{stdoutPath}, writeFile(stdoutPath, p.artifacts[formats[0]])
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := writeFile(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
