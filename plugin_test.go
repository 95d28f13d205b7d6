package cssbundle

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newFile(path, contents string) *File {
	return &File{Path: path, Contents: contents, Loaded: true}
}

func setup(t *testing.T, opts Options) (*Plugin, *Context, *recorder) {
	t.Helper()
	rec := &recorder{}
	ctx := NewContext(t.TempDir(), nil, rec)
	p := New(opts)
	p.Init(ctx)
	return p, ctx, rec
}

func TestTransformInline(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		contents string
		want     string
	}{
		{
			name:     "default",
			contents: ".a{color:red}",
			want:     `__fsbx_css("a.css", ".a{color:red}");`,
		},
		{
			name:     "minified",
			opts:     Options{Minify: true},
			contents: ".a {\n  color: red;\n}\n",
			want:     `__fsbx_css("a.css", ".a{color:red}");`,
		},
		{
			name:     "large content is still inlined",
			contents: strings.Repeat(".a{}", 10000),
			want:     `__fsbx_css("a.css", "` + strings.Repeat(".a{}", 10000) + `");`,
		},
		{
			name:     "custom inject path",
			opts:     Options{Inject: InjectCustom(func(p string) string { return "/static/" + p })},
			contents: ".a{}",
			want:     `__fsbx_css("/static/a.css", ".a{}");`,
		},
		{
			name:     "suppressed",
			opts:     Options{Inject: InjectSuppressed()},
			contents: ".a{}",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ctx, _ := setup(t, tt.opts)
			f := newFile("a.css", tt.contents)
			f.SourceMap = `{"version":3}`

			out, err := p.Transform(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, OutcomeInlined, out.Kind)
			assert.Equal(t, tt.want, out.Code)
			assert.Equal(t, tt.want, f.Alternative)
			assert.Empty(t, f.SourceMap, "inline output carries no source map")
		})
	}
}

func TestTransformLoadsFromDisk(t *testing.T) {
	p, ctx, _ := setup(t, Options{})
	src := filepath.Join(t.TempDir(), "a.css")
	require.NoError(t, os.WriteFile(src, []byte(".a{}"), 0644))

	f := &File{Path: "a.css", AbsPath: src}
	_, err := p.Transform(ctx, f)
	require.NoError(t, err)
	assert.True(t, f.Loaded)
	assert.Equal(t, `__fsbx_css("a.css", ".a{}");`, f.Alternative)
}

func TestTransformLoadError(t *testing.T) {
	p, ctx, _ := setup(t, Options{})
	_, err := p.Transform(ctx, &File{Path: "a.css", AbsPath: "/nonexistent/a.css"})
	require.Error(t, err)
}

func TestTransformWritesFile(t *testing.T) {
	p, ctx, _ := setup(t, Options{})
	p = New(Options{
		OutFile: ComputedPath(func(logical string) string {
			return filepath.Join(ctx.Root, "dist", logical)
		}),
	})

	withMap := newFile("components/a.css", ".a{color:red}")
	withMap.SourceMap = `{"version":3,"sources":["a.scss"],"names":[],"mappings":"AAAA"}`
	withoutMap := newFile("b.css", ".b{}")

	out, err := p.Transform(ctx, withMap)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, out.Kind)
	assert.Equal(t, `__fsbx_css("dist/components/a.css");`, out.Code)
	assert.NotContains(t, out.Code, "color:red")

	_, err = p.Transform(ctx, withoutMap)
	require.NoError(t, err)

	require.NoError(t, ctx.Wait())

	b, err := os.ReadFile(filepath.Join(ctx.Root, "dist", "components", "a.css"))
	require.NoError(t, err)
	assert.Equal(t, ".a{color:red}", string(b))

	b, err = os.ReadFile(filepath.Join(ctx.Root, "dist", "components", "a.css.map"))
	require.NoError(t, err)
	assert.Equal(t, withMap.SourceMap, string(b))

	assert.FileExists(t, filepath.Join(ctx.Root, "dist", "b.css"))
	assert.NoFileExists(t, filepath.Join(ctx.Root, "dist", "b.css.map"))
}

func TestTransformWriteErrorSurfacesOnWait(t *testing.T) {
	p, ctx, rec := setup(t, Options{})
	ctx.LastChanged = "a.css"
	target := filepath.Join(ctx.Root, "a.css")
	// A directory in place of the output file makes the write fail.
	require.NoError(t, os.MkdirAll(target, 0755))

	p = New(Options{OutFile: ComputedPath(func(string) string { return target })})
	f := newFile("a.css", ".a{}")
	f.SourceMap = `{"version":3,"sources":["a.scss"],"names":[],"mappings":"AAAA"}`
	_, err := p.Transform(ctx, f)
	require.NoError(t, err)
	require.Error(t, ctx.Wait())
	assert.NoFileExists(t, target+".map", "the map is not written when the file write fails")
	assert.Empty(t, rec.Events())
}

func TestTransformWritesFileCustomInject(t *testing.T) {
	p, ctx, _ := setup(t, Options{})
	p = New(Options{
		OutFile: ComputedPath(func(logical string) string {
			return filepath.Join(ctx.Root, "dist", logical)
		}),
		Inject: InjectCustom(func(p string) string { return "/static/" + p }),
	})

	out, err := p.Transform(ctx, newFile("a.css", ".a{}"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, out.Kind)
	assert.Equal(t, `__fsbx_css("/static/dist/a.css");`, out.Code)
	require.NoError(t, ctx.Wait())
	assert.FileExists(t, filepath.Join(ctx.Root, "dist", "a.css"))
}

func TestTransformStaticPathWithoutGroup(t *testing.T) {
	p, ctx, _ := setup(t, Options{OutFile: StaticPath("dist/all.css")})

	// Options are rejected before the missing source is read.
	_, err := p.Transform(ctx, &File{Path: "a.css", AbsPath: "/nonexistent/a.css"})
	require.ErrorIs(t, err, ErrConfig)
	require.Len(t, ctx.Errors(), 1)
	assert.ErrorIs(t, ctx.Errors()[0], ErrConfig)
}

func TestTransformComputedPathEmpty(t *testing.T) {
	p, ctx, _ := setup(t, Options{OutFile: ComputedPath(func(string) string { return "" })})
	_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
	require.ErrorIs(t, err, ErrConfig)
}

func TestTransformSkipsAggregationPoint(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "bundle.css"})
	_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
	require.NoError(t, err)

	g := ctx.Groups()[0]
	out, err := p.Transform(ctx, g.File)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out.Kind)
	assert.Len(t, g.Members(), 1)
}

func TestGroupWrittenToFile(t *testing.T) {
	p, ctx, rec := setup(t, Options{})
	p = New(Options{
		Group:   "bundle.css",
		OutFile: StaticPath(filepath.Join(ctx.Root, "dist", "bundle.css")),
	})
	ctx.LastChanged = "src/b.css"

	a := newFile("a.css", ".a{color:red}")
	b := newFile("b.css", ".b{color:blue}")
	for _, f := range []*File{a, b} {
		out, err := p.Transform(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, OutcomeGrouped, out.Kind)
		assert.Equal(t, "bundle.css", out.Group)
		assert.Equal(t, `require("~/bundle.css");`, f.Alternative)
		assert.True(t, f.Grouped)
	}
	assert.Empty(t, rec.Events(), "members do not notify")

	groups := ctx.Groups()
	require.Len(t, groups, 1)
	g := groups[0]

	out, err := g.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, out.Kind)
	assert.Equal(t, `__fsbx_css("dist/bundle.css");`, out.Code)
	assert.Equal(t, out.Code, g.File.Alternative)

	content, err := os.ReadFile(filepath.Join(ctx.Root, "dist", "bundle.css"))
	require.NoError(t, err)
	assert.Equal(t, ".a{color:red}\n.b{color:blue}\n/*# sourceMappingURL=bundle.css.map */", string(content))
	assert.FileExists(t, filepath.Join(ctx.Root, "dist", "bundle.css.map"))

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, Event{Type: "js", Content: out.Code, Path: "bundle.css"}, events[0])
}

func TestGroupWriteErrorStopsSequence(t *testing.T) {
	p, ctx, rec := setup(t, Options{})
	out := filepath.Join(ctx.Root, "dist", "bundle.css")
	p = New(Options{Group: "bundle.css", OutFile: StaticPath(out)})
	ctx.LastChanged = "a.css"

	_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
	require.NoError(t, err)
	// A directory in place of the output file makes the first write fail.
	require.NoError(t, os.MkdirAll(out, 0755))

	g := ctx.Groups()[0]
	_, err = g.Finalize(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), out)
	assert.NoFileExists(t, out+".map")
	assert.Empty(t, g.File.Alternative)
	assert.Empty(t, rec.Events())
}

func TestGroupCustomInject(t *testing.T) {
	static := InjectCustom(func(p string) string { return "/static/" + p })

	t.Run("inlined", func(t *testing.T) {
		p, ctx, _ := setup(t, Options{Group: "g.css", Inject: static})
		_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
		require.NoError(t, err)

		out, err := ctx.Groups()[0].Finalize(ctx)
		require.NoError(t, err)
		assert.Equal(t, `__fsbx_css("/static/g.css", ".a{}");`, out.Code)
	})

	t.Run("written", func(t *testing.T) {
		p, ctx, _ := setup(t, Options{})
		p = New(Options{
			Group:   "bundle.css",
			OutFile: StaticPath(filepath.Join(ctx.Root, "dist", "bundle.css")),
			Inject:  static,
		})
		_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
		require.NoError(t, err)

		g := ctx.Groups()[0]
		out, err := g.Finalize(ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeWritten, out.Kind)
		assert.Equal(t, `__fsbx_css("/static/dist/bundle.css");`, out.Code)
		assert.Equal(t, out.Code, g.File.Alternative)
	})
}

func TestGroupInlined(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "bundle.css", Minify: true})

	for _, f := range []*File{
		newFile("b.css", ".b { color: blue; }"),
		newFile("a.css", ".a { color: red; }"),
	} {
		_, err := p.Transform(ctx, f)
		require.NoError(t, err)
	}

	g := ctx.Groups()[0]
	out, err := g.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInlined, out.Kind)
	assert.Equal(t, `__fsbx_css("bundle.css", ".b{color:blue}\n.a{color:red}");`, out.Code)
	assert.Empty(t, g.File.SourceMap)
}

func TestGroupSuppressed(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "bundle.css", Inject: InjectSuppressed()})

	f := newFile("a.css", ".a{}")
	out, err := p.Transform(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "", out.Code)
	assert.Equal(t, OutcomeGrouped, out.Kind)

	out, err = ctx.Groups()[0].Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", out.Code)
	assert.Equal(t, "", ctx.Groups()[0].File.Alternative)
}

func TestGroupMembershipOrder(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "g.css"})
	other := New(Options{Group: "g.css", Minify: true})

	c := newFile("c.css", ".c{}")
	a := newFile("a.css", ".a{}")
	b := newFile("b.css", ".b{}")

	for _, step := range []struct {
		plugin *Plugin
		file   *File
	}{{p, c}, {other, a}, {p, b}, {p, c}} {
		_, err := step.plugin.Transform(ctx, step.file)
		require.NoError(t, err)
	}

	require.Len(t, ctx.Groups(), 1)
	g := ctx.Groups()[0]
	assert.Same(t, p, g.Plugin(), "the first plugin owns the group")
	assert.Equal(t, []*File{c, a, b}, g.Members())

	out, err := g.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, `__fsbx_css("g.css", ".c{}\n.a{}\n.b{}");`, out.Code)
}

func TestGroupFrozenAfterFinalize(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "g.css"})
	_, err := p.Transform(ctx, newFile("a.css", ".a{}"))
	require.NoError(t, err)
	_, err = ctx.Groups()[0].Finalize(ctx)
	require.NoError(t, err)

	_, err = p.Transform(ctx, newFile("b.css", ".b{}"))
	require.ErrorIs(t, err, ErrGroupFrozen)
}

func TestGroupEmpty(t *testing.T) {
	p, ctx, _ := setup(t, Options{Group: "g.css"})
	g := ctx.Group("g.css", p)
	_, err := g.Finalize(ctx)
	require.ErrorIs(t, err, ErrEmptyGroup)
}

func TestGroupsAreScopedToContext(t *testing.T) {
	p := New(Options{Group: "g.css"})
	first := NewContext("", nil, nil)
	second := NewContext("", nil, nil)

	_, err := p.Transform(first, newFile("a.css", ".a{}"))
	require.NoError(t, err)

	assert.Len(t, first.Groups(), 1)
	assert.Empty(t, second.Groups())
}
