// Package scan enumerates candidate files under a root directory.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Finder walks directory trees for files matching an extension, filtered by
// exclude patterns.
type Finder struct {
	log      zerolog.Logger
	ext      string
	excludes []string
}

// New returns a Finder matching files whose name ends with ext
// (case-insensitive). Excludes are doublestar patterns matched against each
// file's slash-separated path relative to the walk root.
func New(log zerolog.Logger, ext string, excludes []string) *Finder {
	return &Finder{
		log:      log.With().Str("component", "scan").Logger(),
		ext:      strings.ToLower(ext),
		excludes: excludes,
	}
}

// Find returns the matching regular files under root in walk order. Hidden
// files and directories are skipped, as are symlinked directories. Entries
// that fail to stat are logged and skipped; an unreadable root is an error.
func (f *Finder) Find(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walk %s: %w", root, err)
			}
			f.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(name), f.ext) {
			return nil
		}
		if f.excluded(root, path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// excluded reports whether path matches any exclude pattern. Patterns are
// validated at config load, so match errors here only mean "no match".
func (f *Finder) excluded(root, path string) bool {
	if len(f.excludes) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range f.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			f.log.Debug().Str("path", path).Str("pattern", pattern).Msg("excluded")
			return true
		}
	}
	return false
}
