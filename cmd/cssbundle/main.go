// Package main provides the cssbundle CLI: a reference host that bundles a
// directory of stylesheets and serves hot-reload events.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/yacobolo/cssbundle/internal/report"
)

func main() {
	// A missing .env is fine; CSSBUNDLE_* may come from the real environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, report.RenderStyle(report.StyleRed, "Error: "+err.Error(), report.ShouldUseColors(false)))
		os.Exit(1)
	}
}
