// Package concat joins stylesheet members into one blob and one source map.
//
// The merged map is a Source Map v3 index map: each member contributes a
// section at the generated line/column where its content starts. Members
// without a usable map get a line-for-line identity map so every byte of the
// output still resolves to a source file.
package concat

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/go-sourcemap/sourcemap"
)

// Concat accumulates members in the order they are added.
type Concat struct {
	file      string
	separator string

	buf      strings.Builder
	sections []section
	rejected []string
	count    int

	line   int
	column int
}

type offset struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type section struct {
	Offset offset          `json:"offset"`
	Map    json.RawMessage `json:"map"`
}

type indexMap struct {
	Version  int       `json:"version"`
	File     string    `json:"file,omitempty"`
	Sections []section `json:"sections"`
}

type identityMap struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// New returns a Concat for the generated file name, placing separator
// between consecutive pieces.
func New(file, separator string) *Concat {
	return &Concat{file: file, separator: separator}
}

// Add appends a member. sourceMap may be empty.
func (c *Concat) Add(path, content, sourceMap string) {
	c.writeSeparator()

	m, ok := memberMap(sourceMap)
	if !ok {
		if sourceMap != "" {
			c.rejected = append(c.rejected, path)
		}
		m = identity(path, content)
	}

	c.sections = append(c.sections, section{
		Offset: offset{Line: c.line, Column: c.column},
		Map:    m,
	})
	c.write(content)
}

// Append adds text that maps to no source, such as a trailing comment.
func (c *Concat) Append(text string) {
	c.writeSeparator()
	c.write(text)
}

// Content returns the joined text.
func (c *Concat) Content() string {
	return c.buf.String()
}

// Len returns the number of members added with Add.
func (c *Concat) Len() int {
	return len(c.sections)
}

// Rejected lists members whose supplied map was unusable and was replaced by
// an identity map.
func (c *Concat) Rejected() []string {
	return c.rejected
}

// SourceMap renders the merged index map.
func (c *Concat) SourceMap() ([]byte, error) {
	sections := c.sections
	if sections == nil {
		sections = []section{}
	}
	b, err := json.Marshal(indexMap{Version: 3, File: c.file, Sections: sections})
	if err != nil {
		return nil, fmt.Errorf("encode source map: %w", err)
	}
	return b, nil
}

func (c *Concat) writeSeparator() {
	if c.count > 0 {
		c.write(c.separator)
	}
	c.count++
}

func (c *Concat) write(s string) {
	c.buf.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		c.line += strings.Count(s, "\n")
		c.column = utf16Len(s[i+1:])
		return
	}
	c.column += utf16Len(s)
}

// memberMap validates a member's own map. Index maps cannot nest, so a map
// that already has sections is refused.
func memberMap(raw string) (json.RawMessage, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var probe struct {
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil || len(probe.Sections) > 0 {
		return nil, false
	}
	if _, err := sourcemap.Parse("", []byte(raw)); err != nil {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// identity maps line n of the generated text to line n of path.
func identity(path, content string) json.RawMessage {
	mappings := ""
	if content != "" {
		mappings = "AAAA" + strings.Repeat(";AACA", strings.Count(content, "\n"))
	}
	b, _ := json.Marshal(identityMap{
		Version:        3,
		Sources:        []string{path},
		SourcesContent: []string{content},
		Names:          []string{},
		Mappings:       mappings,
	})
	return b
}

// Source map columns count UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
