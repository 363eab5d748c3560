package errors

import (
	"strings"
	"unicode"
)

// ValidateCoordinate validates one Maven coordinate field (groupId,
// artifactId, type or classifier). field names the coordinate in the
// error message.
//
// Coordinates end up in repository URLs and cache keys, so the rules
// reject anything that could escape a path segment:
//   - No empty values
//   - No whitespace or control characters
//   - No ':' (the coordinate separator)
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateCoordinate(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidArtifact, "%s cannot be empty", field)
	}
	if len(value) > 256 {
		return New(ErrCodeInvalidArtifact, "%s too long (max 256 characters)", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidArtifact, "%s contains whitespace or control characters: %q", field, value)
		}
	}
	for _, bad := range []string{":", "/", "\\", ".."} {
		if strings.Contains(value, bad) {
			return New(ErrCodeInvalidArtifact, "%s contains invalid characters %q: %q", field, bad, value)
		}
	}
	return nil
}

// ValidateVersion validates a declared version or version range.
// Unresolved property references such as "${project.version}" are rejected.
func ValidateVersion(v string) error {
	if v == "" {
		return New(ErrCodeInvalidArtifact, "version cannot be empty")
	}
	if strings.Contains(v, "${") {
		return New(ErrCodeInvalidArtifact, "version contains an unresolved property: %q", v)
	}
	for _, r := range v {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return New(ErrCodeInvalidArtifact, "version contains invalid characters: %q", v)
		}
	}
	return nil
}

// ValidatePath validates a file path for safety.
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

// ValidateURL validates a repository URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
