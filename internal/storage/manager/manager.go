package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SnapshotPath returns where the snapshot of the named index lives
func SnapshotPath(basePath, name string) string {
	return filepath.Join(basePath, name+SnapshotExt)
}

// RemoveSnapshot deletes the snapshot of the named index. A missing file
// is not an error.
func RemoveSnapshot(basePath, name string) error {
	if err := os.Remove(SnapshotPath(basePath, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the names of all indexes with a snapshot in
// basePath, sorted. A missing directory yields an empty list.
func ListSnapshots(basePath string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// skips temp files left behind by an interrupted save
		name, ok := strings.CutSuffix(entry.Name(), SnapshotExt)
		if !ok || name == "" {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
