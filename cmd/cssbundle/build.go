package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssbundle/internal/host"
	"github.com/yacobolo/cssbundle/internal/minify"
	"github.com/yacobolo/cssbundle/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle stylesheets once",
	Long: `Discover stylesheets, route each one (inline, own file, or group),
finalize groups, and write the JS bundle.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("json", false, "Print the build manifest as JSON")
	buildCmd.Flags().String("changed", "", "File that triggered this build (enables change events)")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config, err := prepareHostConfig()
	if err != nil {
		return err
	}

	changed, _ := cmd.Flags().GetString("changed")
	summary, buildErr := host.Build(config, changed, nil)

	quiet := getBoolWithFallback("quiet", "quiet", false)
	asJSON, _ := cmd.Flags().GetBool("json")

	switch {
	case asJSON:
		if err := report.WriteJSON(os.Stdout, summary); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	case !quiet:
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		verbose := getBoolWithFallback("verbose", "verbose", false)
		report.NewReporter(os.Stdout, useColors, verbose).Print(summary)
	}

	if buildErr != nil {
		return fmt.Errorf("build failed: %w", buildErr)
	}
	return nil
}

// prepareHostConfig builds the host config with a logger and a cached
// minifier attached.
func prepareHostConfig() (host.Config, error) {
	config := buildHostConfig()
	config.Logger = newLogger()

	if config.Minify {
		cache, err := minify.NewCache(nil, getIntWithFallback("cache-size", "cache-size", 512))
		if err != nil {
			return config, err
		}
		config.Minifier = cache
	}
	return config, nil
}
