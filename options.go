package cssbundle

import "fmt"

// Minifier is a pure stylesheet text transform.
type Minifier interface {
	Minify(content string) (string, error)
}

// Options configure a Plugin. They are resolved once by New.
type Options struct {
	OutFile  OutputTarget // Where written output goes (default: inline)
	Inject   InjectMode   // How injection calls are produced (default: automatic)
	Group    string       // Group to join; empty means the file stands alone
	Minify   bool         // Minify content before routing
	Minifier Minifier     // Minifier to use when Minify is set (default: minify.Default)
}

type targetKind int

const (
	targetNone targetKind = iota
	targetStatic
	targetComputed
)

// OutputTarget is the output path strategy. The zero value means no file
// output.
type OutputTarget struct {
	kind targetKind
	path string
	fn   func(logicalPath string) string
}

// StaticPath writes to a fixed path. Only a group can use it, since every
// individual file would otherwise land on the same path.
func StaticPath(path string) OutputTarget {
	if path == "" {
		return OutputTarget{}
	}
	return OutputTarget{kind: targetStatic, path: path}
}

// ComputedPath derives the output path from the logical path.
func ComputedPath(fn func(logicalPath string) string) OutputTarget {
	if fn == nil {
		return OutputTarget{}
	}
	return OutputTarget{kind: targetComputed, fn: fn}
}

// IsNone reports whether the target produces no file.
func (t OutputTarget) IsNone() bool {
	return t.kind == targetNone
}

// String describes the target for logs.
func (t OutputTarget) String() string {
	switch t.kind {
	case targetStatic:
		return t.path
	case targetComputed:
		return "<computed>"
	}
	return "<none>"
}

// resolve returns the output path for logicalPath. Individual files need a
// computed target.
func (t OutputTarget) resolve(logicalPath string, individual bool) (string, error) {
	switch t.kind {
	case targetComputed:
		out := t.fn(logicalPath)
		if out == "" {
			return "", fmt.Errorf("%w: out file for %s resolved to an empty path", ErrConfig, logicalPath)
		}
		return out, nil
	case targetStatic:
		if individual {
			return "", fmt.Errorf("%w: out file %q must be computed per file when no group is set", ErrConfig, t.path)
		}
		return t.path, nil
	}
	return "", fmt.Errorf("%w: no out file configured", ErrConfig)
}

type injectKind int

const (
	injectAuto injectKind = iota
	injectSuppressed
	injectCustom
)

// InjectMode selects how injection calls are produced. The zero value injects
// automatically using the file's own path.
type InjectMode struct {
	kind injectKind
	fn   func(path string) string
}

// InjectAuto injects using the default path.
func InjectAuto() InjectMode {
	return InjectMode{}
}

// InjectSuppressed emits no injection call. Something else is responsible for
// putting the stylesheet on the page.
func InjectSuppressed() InjectMode {
	return InjectMode{kind: injectSuppressed}
}

// InjectCustom rewrites the path carried by every injection call.
func InjectCustom(fn func(path string) string) InjectMode {
	if fn == nil {
		return InjectMode{}
	}
	return InjectMode{kind: injectCustom, fn: fn}
}

// Suppressed reports whether injection is disabled.
func (m InjectMode) Suppressed() bool {
	return m.kind == injectSuppressed
}

func (m InjectMode) path(p string) string {
	if m.kind == injectCustom {
		return m.fn(p)
	}
	return p
}
