package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a folder holds no matching images.
var ErrNoImages = errors.New("no images found")

// DefaultExtensions are the image suffixes processed by default.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// ListImages returns the files directly inside dir whose extension matches
// one of exts, case-insensitively, sorted by name. Subdirectories are not
// searched.
func ListImages(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image folder: %w", err)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
