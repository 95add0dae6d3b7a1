package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds student names and titles.
const maxNameLength = 256

// ValidateName validates a display name such as a student name or event
// title.
//
// The rules are:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidDataset, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateBasePath validates the prefix prepended to avatar and icon URLs.
// The value ends up in SVG attributes, so quotes, angle brackets and control
// characters are rejected. An empty base path is valid.
func ValidateBasePath(path string) error {
	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "base path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "base path contains invalid characters")
		}
	}

	if strings.ContainsAny(path, `"'<>`) {
		return New(ErrCodeInvalidPath, "base path cannot contain quotes or angle brackets")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "base path cannot contain backslashes")
	}

	return nil
}
