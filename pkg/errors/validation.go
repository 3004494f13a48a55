package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxViewportSide bounds export dimensions so a request cannot allocate an
// arbitrarily large raster.
const MaxViewportSide = 8192

// MaxRasterPixels bounds the pixel count of a raster export after scaling,
// which keeps one PNG buffer at 64 MiB.
const MaxRasterPixels = 4096 * 4096

// ValidateViewport validates drawing surface dimensions for exports.
// Interactive viewports may be zero (inactive); exports must be positive.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %gx%g", width, height)
	}
	if width > MaxViewportSide || height > MaxViewportSide {
		return New(ErrCodeInvalidViewport, "viewport too large (max %d per side)", MaxViewportSide)
	}
	return nil
}

// ValidateRaster checks that a width x height surface drawn at scale fits in
// MaxRasterPixels.
func ValidateRaster(width, height, scale float64) error {
	if px := width * height * scale * scale; px > MaxRasterPixels {
		return New(ErrCodeInvalidViewport,
			"raster too large: %gx%g at scale %g is %.0f pixels (max %d)", width, height, scale, px, MaxRasterPixels)
	}
	return nil
}

// ValidateFormat checks name against a set of supported output formats.
func ValidateFormat(name string, valid map[string]bool) error {
	if name == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !valid[name] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q", name)
	}
	return nil
}

// ValidatePath validates an output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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

// ValidateCategory validates a category tag used as an anchor key.
func ValidateCategory(tag string) error {
	if strings.TrimSpace(tag) != tag {
		return New(ErrCodeInvalidConfig, "category %q has surrounding whitespace", tag)
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "category %q contains control characters", tag)
		}
	}
	return nil
}
