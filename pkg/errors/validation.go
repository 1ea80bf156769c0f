package errors

import (
	"strings"
	"unicode"
)

// MaxImagePixels bounds the decoded image area accepted by [ValidateImageSize].
// 16384x16384 is well above any camera output and keeps the RGBA canvas under 1 GiB.
const MaxImagePixels = 16384 * 16384

// ValidateImageSize checks decoded image dimensions before a canvas is allocated.
func ValidateImageSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "image has no pixels (%dx%d)", width, height)
	}
	if int64(width)*int64(height) > MaxImagePixels {
		return New(ErrCodeInvalidSize, "image too large (%dx%d)", width, height)
	}
	return nil
}

// ValidateFilename validates a suggested output filename.
// It must be a plain basename: no separators, no control characters, not hidden.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains control characters")
		}
	}
	return nil
}
