package errors

import (
	"strings"
	"unicode"
)

const (
	maxNameLength    = 256
	maxVersionLength = 128
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRecord, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidRecord, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidRecord, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateVersion validates a version string. Versions are opaque to
// deptiers (ranges are never interpreted), so only emptiness, length and
// control characters are checked.
func ValidateVersion(version string) error {
	if strings.TrimSpace(version) == "" {
		return New(ErrCodeInvalidRecord, "version cannot be empty")
	}
	if len(version) > maxVersionLength {
		return New(ErrCodeInvalidRecord, "version too long (max %d characters)", maxVersionLength)
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "version contains invalid control characters")
		}
	}
	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	return nil
}
