package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
// Upload filenames come straight from clients, so they are never trusted as
// filesystem paths.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Trim(s, ".")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
