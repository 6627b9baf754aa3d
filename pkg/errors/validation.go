package errors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MaxNameLength bounds preset names.
const MaxNameLength = 64

// ValidatePresetName validates a preset name. Names end up in file paths
// and database keys, so the rules are conservative:
//   - No empty or blank names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of MaxNameLength characters
func ValidatePresetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "preset name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "preset name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "preset name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "preset name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// hexColorRegex matches CSS hex colors in short or long form.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS hex color such as "#ff0000".
func ValidateColor(field, value string) error {
	if !hexColorRegex.MatchString(value) {
		return New(ErrCodeInvalidColor, "%s: %q is not a hex color", field, value)
	}
	return nil
}

// ParseFloat parses a numeric form field. NaN and infinities are rejected
// because they cannot be serialized; any finite value, including zero and
// negatives, is accepted.
func ParseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "%s: %q is not a number", field, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, New(ErrCodeInvalidInput, "%s: %q is not a finite number", field, raw)
	}
	return v, nil
}

// ParseInt parses an integer form field.
func ParseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, New(ErrCodeInvalidInput, "%s: %q is not an integer", field, raw)
	}
	return v, nil
}
