package gallery

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseIndex extracts the numeric display index from a published filename of
// the form "{index}_{name}.{ext}". The second return value is false when the
// name carries no valid prefix.
func ParseIndex(name string) (int, bool) {
	i := strings.IndexByte(name, '_')
	if i <= 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:i])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ExistingIndices scans the output directory and returns the display indices
// already in use, in no particular order. Hidden files, non-image files, and
// files without a valid index prefix are ignored, so a stray README or
// .DS_Store never blocks a run. A missing directory yields an empty result:
// the first run starts the gallery from scratch.
func ExistingIndices(outputDir string) ([]int, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output directory %s: %w", outputDir, err)
	}

	var indices []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || !IsSupported(name) {
			continue
		}
		if n, ok := ParseIndex(name); ok {
			indices = append(indices, n)
		}
	}
	return indices, nil
}

// NextIndex returns the next free display index for the output directory:
// one past the highest existing index, or 1 for an empty gallery. New photos
// always receive indices above every existing one, so reruns never collide
// with or overwrite prior output.
func NextIndex(outputDir string) (int, error) {
	indices, err := ExistingIndices(outputDir)
	if err != nil {
		return 0, err
	}
	next := 1
	for _, n := range indices {
		if n >= next {
			next = n + 1
		}
	}
	return next, nil
}
