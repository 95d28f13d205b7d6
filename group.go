package cssbundle

import (
	"fmt"
	"path/filepath"

	"github.com/yacobolo/cssbundle/internal/concat"
	"github.com/yacobolo/cssbundle/internal/inject"
)

// Group collects files that end up in one concatenated output. Membership
// is append-only until Finalize runs.
type Group struct {
	Name string
	// File is the aggregation point that represents the group in the host's
	// module graph. Its Members are the group's files.
	File *File

	plugin *Plugin
	frozen bool
}

func newGroup(name string, p *Plugin) *Group {
	g := &Group{Name: name, plugin: p}
	g.File = &File{Path: name, Loaded: true, Group: g}
	return g
}

// Members returns the files in the order they joined.
func (g *Group) Members() []*File {
	return g.File.Members
}

// Plugin returns the plugin that created the group. Its options decide how
// the group is written.
func (g *Group) Plugin() *Plugin {
	return g.plugin
}

func (g *Group) add(f *File) error {
	if g.frozen {
		return fmt.Errorf("add %s to %s: %w", f.Path, g.Name, ErrGroupFrozen)
	}
	for _, m := range g.File.Members {
		if m == f {
			return nil
		}
	}
	g.File.Members = append(g.File.Members, f)
	return nil
}

// Finalize concatenates the members and produces the group's output. It
// runs once, after every member was transformed. When the group is written
// to disk the content file is written before its map, and both are written
// before the reference call is produced.
func (g *Group) Finalize(ctx *Context) (Outcome, error) {
	if len(g.File.Members) == 0 {
		return Outcome{}, fmt.Errorf("finalize %s: %w", g.Name, ErrEmptyGroup)
	}
	g.frozen = true

	opts := g.plugin.opts
	log := ctx.logger.With("group", g.Name)

	c := concat.New(g.Name, "\n")
	for _, m := range g.File.Members {
		c.Add(m.Path, m.Contents, m.SourceMap)
	}
	for _, path := range c.Rejected() {
		log.Debug("unusable source map replaced", "path", path)
	}

	if opts.OutFile.IsNone() {
		g.File.Contents = c.Content()
		g.File.SourceMap = ""
		g.File.Alternative = g.plugin.code(inject.KindValue, g.Name, g.File.Contents)
		log.Debug("group inlined", "members", c.Len(), "bytes", len(g.File.Contents))
		ctx.Notify(g.File)
		return Outcome{Kind: OutcomeInlined, Code: g.File.Alternative}, nil
	}

	out, err := opts.OutFile.resolve(g.Name, false)
	if err != nil {
		ctx.Fatal(err)
		return Outcome{}, err
	}

	c.Append("/*# sourceMappingURL=" + filepath.Base(out) + ".map */")
	sourceMap, err := c.SourceMap()
	if err != nil {
		return Outcome{}, fmt.Errorf("finalize %s: %w", g.Name, err)
	}

	if err := writeFile(out, []byte(c.Content())); err != nil {
		return Outcome{}, err
	}
	if err := writeOutput(out+".map", sourceMap); err != nil {
		return Outcome{}, err
	}

	g.File.Contents = c.Content()
	g.File.SourceMap = string(sourceMap)
	g.File.Alternative = g.plugin.code(inject.KindReference, ctx.relative(out), "")
	log.Debug("group written", "members", c.Len(), "out", out)

	ctx.Notify(g.File)
	return Outcome{Kind: OutcomeWritten, Path: out, Code: g.File.Alternative}, nil
}
