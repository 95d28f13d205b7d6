package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssbundle.yaml config file",
	Long:  `Create a .cssbundle.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".cssbundle.yaml"); err == nil && !force {
			return fmt.Errorf(".cssbundle.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".cssbundle.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .cssbundle.yaml")
		return nil
	},
}

const defaultConfig = `# cssbundle configuration
# Docs: https://github.com/yacobolo/cssbundle

verbose: false

# Discovery
source: web/styles
include:
  - "**/*.css"
ignore-file: .gitignore

# Output
out:
  dir: dist
  bundle: bundle.js
  file: ""              # "app.css" (with group) | "css/[name].css" (per file) | "" (inline)

group: ""               # concatenate every stylesheet into this group
inject: true            # false: bundle carries no injection calls
minify: false
cache-size: 512         # minify cache entries kept by serve

serve:
  addr: 127.0.0.1:3333
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
