package bencheval

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// cycleFileRE matches cycle-count result files and captures the kernel name.
var cycleFileRE = regexp.MustCompile(`^cycles-(.+)\.csv$`)

// ScanEntry is one discovered directory or leaf file.
type ScanEntry struct {
	// Name is the axis value: the directory name, or the kernel name
	// captured from a leaf file name.
	Name string
	Path string
}

// ScanDirs enumerates the immediate subdirectories of root. Entries that are
// not directories are skipped.
//
// The order is the filesystem enumeration order. Callers that need a stable
// axis order iterate a Config table instead of the scan result.
func ScanDirs(root string) ([]ScanEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	var found []ScanEntry

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		found = append(found, ScanEntry{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		})
	}

	return found, nil
}

// ScanCycleFiles enumerates the cycles-<kernel>.csv leaves of a mitigation
// directory. Files not matching the pattern are skipped.
func ScanCycleFiles(dir string) ([]ScanEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var found []ScanEntry

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		match := cycleFileRE.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}

		found = append(found, ScanEntry{
			Name: match[1],
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	return found, nil
}
