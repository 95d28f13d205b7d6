package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cssbundle",
	Short: "Stylesheet stage for JS bundles",
	Long: `Route stylesheets into a JS bundle: inline them as registered strings,
write them to their own files, or concatenate them into named groups.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	f := rootCmd.PersistentFlags()
	f.BoolP("verbose", "v", false, "Enable verbose logging")
	f.Bool("quiet", false, "Suppress all output (exit code only)")
	f.Bool("color", false, "Force color output")
	f.String("config", ".cssbundle.yaml", "Config file path")
	f.String("source", "web/styles", "Source stylesheet directory")
	f.StringSlice("include", nil, "Glob patterns for stylesheets to include")
	f.String("out-dir", "dist", "Output directory")
	f.String("bundle", "bundle.js", "JS bundle file name inside the output directory")
	f.String("out-file", "", "Stylesheet output path; [name] or [path] writes one file per stylesheet")
	f.String("group", "", "Concatenate every stylesheet into this group")
	f.Bool("inject", true, "Emit injection calls into the bundle")
	f.Bool("minify", false, "Minify stylesheets")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
