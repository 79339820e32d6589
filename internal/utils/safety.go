package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName is returned for names that are not a single path segment.
	ErrInvalidName = errors.New("invalid name")
	// ErrPathEscapesRoot is returned when a joined path leaves its root directory.
	ErrPathEscapesRoot = errors.New("path escapes root")
)

const (
	errorEmptyNameFormat     = "empty name: %w"
	errorDotNameFormat       = "name %q is reserved: %w"
	errorSeparatorNameFormat = "name %q must not contain path separators: %w"
	errorEscapeFormat        = "%s: %w"
)

// ValidateName checks that name is one path segment: not empty, not "." or "..", without separators.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == EmptyString {
		return fmt.Errorf(errorEmptyNameFormat, ErrInvalidName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf(errorDotNameFormat, name, ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return fmt.Errorf(errorSeparatorNameFormat, name, ErrInvalidName)
	}
	return nil
}

// SafeJoin joins root and parts and verifies the result stays inside root.
func SafeJoin(root string, parts ...string) (string, error) {
	cleanRoot := filepath.Clean(root)
	joined := filepath.Clean(filepath.Join(append([]string{cleanRoot}, parts...)...))
	relativePath, relativeError := filepath.Rel(cleanRoot, joined)
	if relativeError != nil {
		return "", relativeError
	}
	normalized := filepath.ToSlash(relativePath)
	if normalized == ".." || strings.HasPrefix(normalized, "../") {
		return "", fmt.Errorf(errorEscapeFormat, joined, ErrPathEscapesRoot)
	}
	return joined, nil
}
