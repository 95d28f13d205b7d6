// Package discover finds stylesheet sources for the CLI host.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Source is a discovered stylesheet.
type Source struct {
	Path    string // Logical path relative to the source dir, slash-separated
	AbsPath string // Path on disk
}

// Stats tracks discovery statistics.
type Stats struct {
	FilesDiscovered int // Total files matched by the include patterns
	FilesIncluded   int // Files kept after filtering
	FilesSkipped    int // Files skipped by ignore rules
}

// Options control discovery.
type Options struct {
	SourceDir  string   // "web/styles"
	Includes   []string // ["**/*.css"]
	IgnoreFile string   // Optional gitignore-style file; missing files are fine
}

// Find returns the sources matching opts.Includes under opts.SourceDir, in
// include-pattern order and lexical order within a pattern. A file matched by
// several patterns is listed once, at its first match.
func Find(opts Options) ([]Source, Stats, error) {
	var stats Stats

	root, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve source dir: %w", err)
	}

	gi := loadIgnore(opts.IgnoreFile)

	var sources []Source
	seen := make(map[string]bool)

	for _, pattern := range opts.Includes {
		// Use doublestar for ** glob support
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, stats, fmt.Errorf("relative path for %s: %w", match, err)
			}
			rel = filepath.ToSlash(rel)

			if gi != nil && gi.MatchesPath(rel) {
				stats.FilesSkipped++
				continue
			}

			sources = append(sources, Source{Path: rel, AbsPath: match})
			stats.FilesIncluded++
		}
	}

	return sources, stats, nil
}

// loadIgnore compiles the ignore file. Gracefully degrades if it doesn't
// exist.
func loadIgnore(path string) *ignore.GitIgnore {
	if path == "" {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
