// Package gallery models the state of a photo gallery on disk: the input
// directory holding unprocessed photos, the output directory holding
// index-prefixed published photos, and optional caption sidecars.
package gallery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInputNotFound is returned when the input directory does not exist.
var ErrInputNotFound = errors.New("input directory not found")

// supportedExts are the image file extensions the pipeline accepts,
// compared case-insensitively.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsSupported reports whether the file at path has a supported image
// extension.
func IsSupported(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// ScanInput lists the supported image files directly inside dir, sorted by
// name. Subdirectories and hidden files are skipped. A missing directory
// returns ErrInputNotFound; an empty directory returns an empty slice.
func ScanInput(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !IsSupported(name) {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
