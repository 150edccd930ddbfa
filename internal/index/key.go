package index

import (
	"path/filepath"
	"strings"
)

// Key derives the index key from an uploaded filename by stripping its
// extension. The same filename always yields the same key, so re-ingesting a
// file overwrites its prior index rather than creating a new one.
func Key(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
