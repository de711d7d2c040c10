package album

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/albumgrid/pkg/errors"
)

// Supported album formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatFromPath infers the album format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer album format from %q (use .json or .toml)", filepath.Base(path))
	}
}

// Read decodes an album in the given format from r.
// Read does not validate the album; call [Album.Validate] for that.
func Read(r io.Reader, format string) (*Album, error) {
	var a Album
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAlbum, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&a)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAlbum, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidAlbum, "unknown key %q", undecoded[0].String())
		}
	default:
		return nil, errors.ValidateFormat(format, FormatJSON, FormatTOML)
	}
	return &a, nil
}

// ReadFile reads and validates the album at path.
func ReadFile(path string) (*Album, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "album %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	a, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.Source = path
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
