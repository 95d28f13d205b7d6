package cssbundle

import (
	"fmt"
	"os"
)

// File is one stylesheet in the host's module graph. The host creates it;
// the plugin rewrites its content fields in place.
type File struct {
	Path        string // Logical, bundle-relative path: "components/button.css"
	AbsPath     string // On-disk source, read by Load when Contents is not loaded
	Contents    string // Stylesheet text (minified once transformed, if configured)
	SourceMap   string // Source map JSON, empty when there is none
	Alternative string // JS-visible replacement for the file body
	Loaded      bool   // Contents holds the source text
	Grouped     bool   // Absorbed into a group

	// Group is set on a group's aggregation point; Members are the files the
	// group absorbed, in the order they joined.
	Group   *Group
	Members []*File
}

// Load reads the source text if it is not loaded yet.
func (f *File) Load() error {
	if f.Loaded {
		return nil
	}
	if f.AbsPath == "" {
		return fmt.Errorf("load %s: no source path", f.Path)
	}
	// #nosec G304 - path comes from the host's module graph
	b, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", f.Path, err)
	}
	f.Contents = string(b)
	f.Loaded = true
	return nil
}

// isAggregate reports whether f stands for a whole group.
func (f *File) isAggregate() bool {
	return f.Group != nil || len(f.Members) > 0
}
