package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxGroupItems is the largest group any row partition can hold.
const maxGroupItems = 12

// ValidateSize checks the natural size of one media item.
// Both dimensions must be finite and strictly positive.
func ValidateSize(w, h float64) error {
	if !finite(w) || !finite(h) {
		return New(ErrCodeInvalidSize, "dimensions must be finite, got %vx%v", w, h)
	}
	if w <= 0 || h <= 0 {
		return New(ErrCodeInvalidSize, "dimensions must be positive, got %vx%v", w, h)
	}
	return nil
}

// ValidateConstraints checks layout constraints.
// All values must be finite and non-negative, and minWidth may not exceed
// maxWidth. A zero maxHeight means unset.
func ValidateConstraints(maxWidth, minWidth, spacing, maxHeight float64) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_width", maxWidth},
		{"min_width", minWidth},
		{"spacing", spacing},
		{"max_height", maxHeight},
	} {
		if !finite(f.value) {
			return New(ErrCodeInvalidConstraints, "%s must be finite", f.name)
		}
		if f.value < 0 {
			return New(ErrCodeInvalidConstraints, "%s must not be negative, got %v", f.name, f.value)
		}
	}
	if minWidth > maxWidth {
		return New(ErrCodeInvalidConstraints, "min_width (%v) exceeds max_width (%v)", minWidth, maxWidth)
	}
	return nil
}

// ValidateGroupSize checks that an album has at least one item and no more
// than the layout engine can place.
func ValidateGroupSize(n int) error {
	if n == 0 {
		return New(ErrCodeInvalidAlbum, "album has no items")
	}
	if n > maxGroupItems {
		return New(ErrCodeInvalidAlbum, "album has %d items (max %d)", n, maxGroupItems)
	}
	return nil
}

// ValidateFormat checks an output format name against the allowed set.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

// ValidateLayoutID validates a stored layout identifier.
// IDs are opaque tokens of letters, digits and dashes.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "layout id too long (max 64 characters)")
	}
	for _, r := range id {
		if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidInput, "layout id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidatePath validates a file path given to the CLI or read from an album.
//
// The validation rules are:
//   - Must not be empty
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
