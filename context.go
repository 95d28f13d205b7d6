package cssbundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Event is pushed to hot-reload clients when a stylesheet changes.
type Event struct {
	Type    string `json:"type"`    // Always "js": clients evaluate Content
	Content string `json:"content"` // The file's alternative content
	Path    string `json:"path"`    // Logical path
}

// Emitter is the host's change-broadcast channel. Emit may be called from
// background write goroutines.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

// Emit calls f(e).
func (f EmitterFunc) Emit(e Event) {
	f(e)
}

// Context holds the state of one build: the group registry, the extension
// allow-list, fatal errors, and in-flight writes. A new build gets a new
// Context, so groups never leak across builds.
type Context struct {
	// Root is the bundle root. Output paths are made relative to it before
	// they go into reference calls.
	Root string
	// LastChanged is the file that triggered this incremental build. Empty
	// for full builds.
	LastChanged string

	logger  *slog.Logger
	emitter Emitter

	extensions map[string]struct{}
	groups     map[string]*Group
	order      []*Group
	errs       []error
	writes     errgroup.Group
}

// NewContext returns a Context for one build. logger and emitter may be nil.
func NewContext(root string, logger *slog.Logger, emitter Emitter) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{
		Root:       root,
		logger:     logger,
		emitter:    emitter,
		extensions: make(map[string]struct{}),
		groups:     make(map[string]*Group),
	}
}

// Logger returns the build's log sink.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// AllowExtension registers ext (".css") as a stylesheet extension.
func (c *Context) AllowExtension(ext string) {
	c.extensions[strings.ToLower(ext)] = struct{}{}
}

// Allowed reports whether path has a registered stylesheet extension.
func (c *Context) Allowed(path string) bool {
	_, ok := c.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Fatal records a build-level failure.
func (c *Context) Fatal(err error) {
	c.logger.Error("build failure", "error", err)
	c.errs = append(c.errs, err)
}

// Errors returns the fatal errors recorded so far.
func (c *Context) Errors() []error {
	return c.errs
}

// Group returns the group called name, creating it on first use with p as
// its creator.
func (c *Context) Group(name string, p *Plugin) *Group {
	if g, ok := c.groups[name]; ok {
		return g
	}
	g := newGroup(name, p)
	c.groups[name] = g
	c.order = append(c.order, g)
	c.logger.Debug("group created", "group", name, "out", p.opts.OutFile.String())
	return g
}

// Groups returns every group in creation order.
func (c *Context) Groups() []*Group {
	return c.order
}

// Wait blocks until background writes finish and returns the first error.
func (c *Context) Wait() error {
	return c.writes.Wait()
}

// relative turns an output path into the path carried by reference calls.
func (c *Context) relative(out string) string {
	if c.Root != "" {
		abs, err := filepath.Abs(out)
		root, rerr := filepath.Abs(c.Root)
		if err == nil && rerr == nil {
			if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(filepath.Clean(out))
}

// writeFile creates the parent directories of path and writes data to it.
func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return writeOutput(path, data)
}

// writeOutput writes data to path, whose directory must already exist.
func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return nil
}
