package cssbundle

import (
	"fmt"

	"github.com/yacobolo/cssbundle/internal/inject"
	"github.com/yacobolo/cssbundle/internal/minify"
)

// OutcomeKind says where a transformed file went.
type OutcomeKind int

const (
	// OutcomeSkipped: the file is an aggregation point; Finalize handles it.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeInlined: the content is carried by a value call.
	OutcomeInlined
	// OutcomeWritten: the content was written to Path.
	OutcomeWritten
	// OutcomeGrouped: the file joined Group.
	OutcomeGrouped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInlined:
		return "inlined"
	case OutcomeWritten:
		return "written"
	case OutcomeGrouped:
		return "grouped"
	}
	return "unknown"
}

// Outcome is the result of routing one file.
type Outcome struct {
	Kind  OutcomeKind
	Code  string // Replacement for the file body (also stored in File.Alternative)
	Path  string // Output path, for OutcomeWritten
	Group string // Group name, for OutcomeGrouped
}

// Plugin routes stylesheet files to their output.
type Plugin struct {
	opts     Options
	minifier Minifier
}

// New returns a Plugin for opts.
func New(opts Options) *Plugin {
	p := &Plugin{opts: opts, minifier: opts.Minifier}
	if p.minifier == nil {
		p.minifier = minify.Default
	}
	return p
}

// Options returns the options the plugin was built with.
func (p *Plugin) Options() Options {
	return p.opts
}

// Init registers the stylesheet extension with the build.
func (p *Plugin) Init(ctx *Context) {
	ctx.AllowExtension(".css")
}

// Transform routes f. Files joining a group are only recorded here; their
// output is produced by Group.Finalize. Files written to disk return before
// the write completes; Context.Wait reports write errors.
func (p *Plugin) Transform(ctx *Context, f *File) (Outcome, error) {
	if f.isAggregate() {
		return Outcome{Kind: OutcomeSkipped}, nil
	}

	log := ctx.logger.With("path", f.Path)

	// Options are checked before touching the filesystem.
	var out string
	if p.opts.Group == "" && !p.opts.OutFile.IsNone() {
		var err error
		if out, err = p.opts.OutFile.resolve(f.Path, true); err != nil {
			ctx.Fatal(err)
			return Outcome{}, err
		}
	}

	if err := f.Load(); err != nil {
		return Outcome{}, err
	}

	if p.opts.Minify {
		minified, err := p.minifier.Minify(f.Contents)
		if err != nil {
			return Outcome{}, fmt.Errorf("minify %s: %w", f.Path, err)
		}
		f.Contents = minified
	}

	switch {
	case p.opts.Group != "":
		return p.joinGroup(ctx, f)
	case out != "":
		return p.writeOut(ctx, f, out)
	}

	f.SourceMap = ""
	f.Alternative = p.code(inject.KindValue, f.Path, f.Contents)
	log.Debug("inlined", "bytes", len(f.Contents))
	ctx.Notify(f)
	return Outcome{Kind: OutcomeInlined, Code: f.Alternative}, nil
}

func (p *Plugin) joinGroup(ctx *Context, f *File) (Outcome, error) {
	g := ctx.Group(p.opts.Group, p)
	if err := g.add(f); err != nil {
		return Outcome{}, err
	}
	f.Grouped = true
	f.Alternative = ""
	if !p.opts.Inject.Suppressed() {
		f.Alternative = inject.Require(g.Name)
	}
	ctx.logger.Debug("grouped", "path", f.Path, "group", g.Name, "position", len(g.Members()))
	return Outcome{Kind: OutcomeGrouped, Group: g.Name, Code: f.Alternative}, nil
}

func (p *Plugin) writeOut(ctx *Context, f *File, out string) (Outcome, error) {
	if err := ensureDir(out); err != nil {
		return Outcome{}, err
	}

	f.Alternative = p.code(inject.KindReference, ctx.relative(out), "")

	// The write must not touch f after Transform returns.
	contents, sourceMap := f.Contents, f.SourceMap
	changed := &File{Path: f.Path, Alternative: f.Alternative}
	ctx.writes.Go(func() error {
		if err := writeOutput(out, []byte(contents)); err != nil {
			ctx.logger.Error("write failed", "path", changed.Path, "out", out, "error", err)
			return err
		}
		if sourceMap != "" {
			if err := writeOutput(out+".map", []byte(sourceMap)); err != nil {
				ctx.logger.Error("write failed", "path", changed.Path, "out", out+".map", "error", err)
				return err
			}
		}
		ctx.logger.Debug("written", "path", changed.Path, "out", out)
		ctx.Notify(changed)
		return nil
	})

	return Outcome{Kind: OutcomeWritten, Path: out, Code: f.Alternative}, nil
}

// code renders an injection call, honoring the inject mode.
func (p *Plugin) code(kind inject.Kind, path, payload string) string {
	if p.opts.Inject.Suppressed() {
		return inject.Encode(inject.KindSuppressed, path, payload)
	}
	return inject.Encode(kind, p.opts.Inject.path(path), payload)
}
