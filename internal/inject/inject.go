// Package inject renders the runtime calls that register stylesheets with the
// in-bundle CSS runtime.
package inject

import (
	"bytes"
	"encoding/json"
)

// Func is the runtime function every injection call invokes. The bundled CSS
// runtime exposes it under this exact name.
const Func = "__fsbx_css"

// Kind selects the shape of an injection call.
type Kind int

const (
	// KindValue carries the stylesheet text inline.
	KindValue Kind = iota
	// KindReference carries only a path; the runtime loads the file itself.
	KindReference
	// KindSuppressed renders nothing.
	KindSuppressed
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindReference:
		return "reference"
	case KindSuppressed:
		return "suppressed"
	}
	return "unknown"
}

// Encode renders an injection call of the given kind.
//
//	value:      __fsbx_css("a.css", ".a{color:red}");
//	reference:  __fsbx_css("dist/a.css");
//	suppressed: (empty)
func Encode(kind Kind, path, payload string) string {
	switch kind {
	case KindValue:
		return Value(path, payload)
	case KindReference:
		return Reference(path)
	}
	return ""
}

// Value renders a call that registers content directly.
func Value(path, content string) string {
	return Func + "(" + Quote(path) + ", " + Quote(content) + ");"
}

// Reference renders a call that points the runtime at an external file.
func Reference(path string) string {
	return Func + "(" + Quote(path) + ");"
}

// Require renders the marker left in a file that was absorbed into a group.
func Require(groupPath string) string {
	return `require(` + Quote("~/"+groupPath) + `);`
}

// Quote returns s as a JSON string literal. HTML characters are left as-is
// so the output matches JSON.stringify.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
