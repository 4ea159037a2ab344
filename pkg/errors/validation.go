package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateTileURL validates a tile URL for safety and correctness.
// It ensures the URL parses, uses an http or https scheme, and names a host.
func ValidateTileURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "tile URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "tile URL does not parse")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "tile URL must use http or https scheme")
	}

	if u.Host == "" {
		return New(ErrCodeInvalidURL, "tile URL is missing a host")
	}

	return nil
}

// ValidateLayerName validates a layer name used for export filtering and
// artifact filenames. It rejects names that could be used for path traversal.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLayer, "layer name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidLayer, "layer name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayer, "layer name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidLayer, "layer name contains path characters")
	}

	return nil
}

// ValidateSampleLimit validates a sample-value limit for export rendering.
// Zero is allowed and means "use the default".
func ValidateSampleLimit(limit int) error {
	if limit < 0 {
		return New(ErrCodeInvalidLimit, "sample limit cannot be negative")
	}
	return nil
}
