package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshuapare/cellkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	noColor  bool
	logFile  string
	logLevel string

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "cellctl",
	Short: "Inspect cell names, library references and hierarchies",
	Long: `cellctl exercises the cell identity core: it shows how cell names are
aliased under a renaming policy, resolves references through library files,
detects archive formats and walks cell hierarchies.`,
	Version:            "0.1.0",
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: func(*cobra.Command, []string) error { return closeLog() },
	SilenceUsage:       true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging enables the core's logger when --verbose or --log-file is
// given.
func setupLogging(*cobra.Command, []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	closer, err := logger.Init(logger.Options{
		Enabled: verbose || logFile != "",
		File:    logFile,
		Level:   level,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	closeLog = closer
	return nil
}

// Helper functions for output

// useColor reports whether stdout is a terminal that should get color.
func useColor() bool {
	if noColor || jsonOut {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// bold wraps s in bold escapes when color is enabled
func bold(s string) string {
	if !useColor() {
		return s
	}
	return ansiBold + s + ansiReset
}

// dim wraps s in faint escapes when color is enabled
func dim(s string) string {
	if !useColor() {
		return s
	}
	return ansiDim + s + ansiReset
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
