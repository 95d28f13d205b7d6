// Package report prints build summaries for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// FileEntry records where one stylesheet went.
type FileEntry struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`          // inlined | written | grouped
	Output  string `json:"output,omitempty"` // Written file
	Group   string `json:"group,omitempty"`
	Bytes   int    `json:"bytes"`
}

// GroupEntry records one finalized group.
type GroupEntry struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Output  string `json:"output,omitempty"`
	Members int    `json:"members"`
	Bytes   int    `json:"bytes"`
}

// Summary describes one build.
type Summary struct {
	Bundle     string        `json:"bundle"` // JS bundle written by the host
	Discovered int           `json:"discovered"`
	Skipped    int           `json:"skipped"`
	Files      []FileEntry   `json:"files"`
	Groups     []GroupEntry  `json:"groups"`
	Errors     []string      `json:"errors,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Reporter handles formatting build summaries.
type Reporter struct {
	w         io.Writer
	useColors bool
	verbose   bool
}

// NewReporter creates a reporter. verbose lists every file.
func NewReporter(w io.Writer, useColors, verbose bool) *Reporter {
	return &Reporter{w: w, useColors: useColors, verbose: verbose}
}

// Print writes a human-readable summary.
func (r *Reporter) Print(s Summary) {
	if r.verbose {
		for _, f := range s.Files {
			line := fmt.Sprintf("  %s %s", f.Path, RenderStyle(StyleGray, "("+f.Outcome+")", r.useColors))
			switch {
			case f.Output != "":
				line += " -> " + RenderStyle(StyleCyan, f.Output, r.useColors)
			case f.Group != "":
				line += " -> " + f.Group
			}
			fmt.Fprintln(r.w, line)
		}
	}

	for _, g := range s.Groups {
		target := g.Output
		if target == "" {
			target = "inline"
		}
		fmt.Fprintf(r.w, "  group %s: %d files, %d bytes -> %s\n",
			g.Name, g.Members, g.Bytes, RenderStyle(StyleCyan, target, r.useColors))
	}

	if s.Skipped > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow,
			fmt.Sprintf("  %d ignored files skipped", s.Skipped), r.useColors))
	}

	if len(s.Errors) > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleRed, fmt.Sprintf("✗ Build failed (%d errors)", len(s.Errors)), r.useColors))
		for _, e := range s.Errors {
			fmt.Fprintf(r.w, "  - %s\n", e)
		}
		return
	}

	fmt.Fprintln(r.w, RenderStyle(StyleGreen,
		fmt.Sprintf("✓ Bundled %d stylesheets into %s in %s", len(s.Files), s.Bundle, s.Duration.Round(time.Millisecond)),
		r.useColors))
}

// WriteJSON writes the summary as an indented JSON manifest.
func WriteJSON(w io.Writer, s Summary) error {
	if s.Files == nil {
		s.Files = []FileEntry{}
	}
	if s.Groups == nil {
		s.Groups = []GroupEntry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
