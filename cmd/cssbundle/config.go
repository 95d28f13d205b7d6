package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/cssbundle/internal/host"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".cssbundle.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence, only flags that were explicitly set).
	// Unset flag defaults would otherwise shadow config file keys in the
	// *WithFallback lookups below.
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// Environment variables (CSSBUNDLE_* prefix)
	if err := k.Load(env.Provider("CSSBUNDLE_", ".", func(s string) string {
		// CSSBUNDLE_OUT_FILE -> out.file
		// CSSBUNDLE_SERVE_ADDR -> serve.addr
		// CSSBUNDLE_MINIFY -> minify
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CSSBUNDLE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildHostConfig constructs the host's Config from koanf state.
func buildHostConfig() host.Config {
	config := host.Config{
		SourceDir:  getStringWithFallback("source", "source", "web/styles"),
		IgnoreFile: getStringWithFallback("ignore-file", "ignore-file", ".gitignore"),
		OutDir:     getStringWithFallback("out-dir", "out.dir", "dist"),
		Bundle:     getStringWithFallback("bundle", "out.bundle", "bundle.js"),
		OutFile:    getStringWithFallback("out-file", "out.file", ""),
		Group:      getStringWithFallback("group", "group", ""),
		Inject:     getBoolWithFallback("inject", "inject", true),
		Minify:     getBoolWithFallback("minify", "minify", false),
	}

	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = []string{"**/*.css"}
	}

	return config
}

// newLogger returns the build logger: debug output with --verbose, errors
// only with --quiet.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		level = slog.LevelError
	case getBoolWithFallback("verbose", "verbose", false):
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
