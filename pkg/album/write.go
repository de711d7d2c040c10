package album

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/albumgrid/pkg/errors"
)

// Write encodes a in the given format to w.
// JSON output is indented so that album files stay diffable.
func Write(w io.Writer, a *Album, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(a); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.ValidateFormat(format, FormatJSON, FormatTOML)
	}
	return nil
}

// WriteFile writes a to path, choosing the format from the extension.
func WriteFile(a *Album, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, a, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
