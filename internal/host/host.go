// Package host drives cssbundle over a directory of stylesheets. It stands
// in for a bundler's module graph: it discovers files, routes each through
// the plugin, finalizes groups, and writes the JS bundle.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/yacobolo/cssbundle"
	"github.com/yacobolo/cssbundle/internal/discover"
	"github.com/yacobolo/cssbundle/internal/report"
)

// Config holds host configuration.
type Config struct {
	SourceDir  string   // "web/styles"
	Includes   []string // ["**/*.css"]
	IgnoreFile string   // ".gitignore"; missing is fine
	OutDir     string   // "dist"
	Bundle     string   // JS bundle name inside OutDir: "bundle.js"
	Group      string   // Group every stylesheet joins; empty for none
	OutFile    string   // Output path relative to OutDir; [name] and [path] make it per file
	Inject     bool     // Emit injection calls (default: true)
	Minify     bool     // Minify stylesheets
	Minifier   cssbundle.Minifier
	Logger     *slog.Logger
}

// Options translates the host configuration into plugin options.
func (c Config) Options() cssbundle.Options {
	opts := cssbundle.Options{
		Group:    c.Group,
		Minify:   c.Minify,
		Minifier: c.Minifier,
		OutFile:  outputTarget(c.OutDir, c.OutFile),
	}
	if !c.Inject {
		opts.Inject = cssbundle.InjectSuppressed()
	}
	return opts
}

// outputTarget resolves the out-file setting. A pattern with placeholders
// yields one file per stylesheet; a plain path is a single (group) file.
func outputTarget(outDir, outFile string) cssbundle.OutputTarget {
	if outFile == "" {
		return cssbundle.OutputTarget{}
	}
	if !strings.Contains(outFile, "[name]") && !strings.Contains(outFile, "[path]") {
		return cssbundle.StaticPath(filepath.Join(outDir, outFile))
	}
	return cssbundle.ComputedPath(func(logical string) string {
		name := strings.TrimSuffix(path.Base(logical), path.Ext(logical))
		out := strings.NewReplacer("[path]", logical, "[name]", name).Replace(outFile)
		return filepath.Join(outDir, filepath.FromSlash(out))
	})
}

// Build runs one build. lastChanged is the file that triggered it (empty for
// a full build) and emitter receives change events; both may be empty.
func Build(cfg Config, lastChanged string, emitter cssbundle.Emitter) (report.Summary, error) {
	start := time.Now()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	summary := report.Summary{Bundle: filepath.ToSlash(filepath.Join(cfg.OutDir, cfg.Bundle))}

	sources, stats, err := discover.Find(discover.Options{
		SourceDir:  cfg.SourceDir,
		Includes:   cfg.Includes,
		IgnoreFile: cfg.IgnoreFile,
	})
	if err != nil {
		return summary, fmt.Errorf("discover: %w", err)
	}
	summary.Discovered = stats.FilesDiscovered
	summary.Skipped = stats.FilesSkipped
	logger.Debug("sources discovered", "count", len(sources), "skipped", stats.FilesSkipped)

	ctx := cssbundle.NewContext(cfg.OutDir, logger, emitter)
	ctx.LastChanged = lastChanged
	plugin := cssbundle.New(cfg.Options())
	plugin.Init(ctx)

	var (
		errs    []error
		entries []entry
	)

	for _, src := range sources {
		if !ctx.Allowed(src.Path) {
			continue
		}
		f := &cssbundle.File{Path: src.Path, AbsPath: src.AbsPath}
		out, err := plugin.Transform(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry{file: f, outcome: out})
		summary.Files = append(summary.Files, report.FileEntry{
			Path:    f.Path,
			Outcome: out.Kind.String(),
			Output:  filepath.ToSlash(out.Path),
			Group:   out.Group,
			Bytes:   len(f.Contents),
		})
	}

	groups := make(map[string]*cssbundle.Group)
	for _, g := range ctx.Groups() {
		out, err := g.Finalize(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		groups[g.Name] = g
		summary.Groups = append(summary.Groups, report.GroupEntry{
			Name:    g.Name,
			Outcome: out.Kind.String(),
			Output:  filepath.ToSlash(out.Path),
			Members: len(g.Members()),
			Bytes:   len(g.File.Contents),
		})
	}

	if err := ctx.Wait(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		if err := writeBundle(filepath.Join(cfg.OutDir, cfg.Bundle), entries, groups); err != nil {
			errs = append(errs, err)
		}
	}

	for _, err := range errs {
		summary.Errors = append(summary.Errors, err.Error())
	}
	summary.Duration = time.Since(start)

	return summary, errors.Join(errs...)
}

type entry struct {
	file    *cssbundle.File
	outcome cssbundle.Outcome
}

// writeBundle writes each file's replacement in discovery order. A group's
// code is written once, where its first member appeared.
func writeBundle(path string, entries []entry, groups map[string]*cssbundle.Group) error {
	var b strings.Builder
	emitted := make(map[string]bool)

	for _, e := range entries {
		name, code := e.file.Path, e.file.Alternative
		if e.outcome.Kind == cssbundle.OutcomeGrouped {
			g, ok := groups[e.outcome.Group]
			if !ok || emitted[g.Name] {
				continue
			}
			emitted[g.Name] = true
			name, code = g.Name, g.File.Alternative
		}
		if code == "" {
			continue
		}
		fmt.Fprintf(&b, "// %s\n%s\n", name, code)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}
