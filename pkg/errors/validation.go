package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// dimensionNameRegex matches names usable as record fields for group
// assignments: they become "<name>", "<name>_val" and "<name>_options".
var dimensionNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedDimensions are assigned by the facet composer itself.
var reservedDimensions = map[string]bool{
	"row":    true,
	"column": true,
	"stack":  true,
	"type":   true,
	"key":    true,
	"data":   true,
}

// ValidateDimensionName checks that name can be used as an extra facet
// dimension.
func ValidateDimensionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dimension name cannot be empty")
	}
	if !dimensionNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid dimension name: %q", name)
	}
	if reservedDimensions[name] {
		return New(ErrCodeInvalidInput, "dimension name %q is reserved", name)
	}
	return nil
}

// ValidateFieldPath checks a dotted field path from a view file or request.
func ValidateFieldPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "field path cannot be empty")
	}

	const maxPathLength = 256
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "field path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "field path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "field path has an empty segment: %q", path)
	}
	return nil
}

// ValidateRepoName checks a repository directory name. It must be a plain
// directory name inside the project root.
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "repository name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return New(ErrCodeInvalidPath, "repository name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "repository name cannot be %q", name)
	}
	return nil
}
