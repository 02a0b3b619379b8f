package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/recon/internal/config"
	"github.com/vango-dev/recon/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "recon",
		Short: "Virtual tree reconciliation engine",
		Long: `recon reconciles virtual node trees against a host tree.

It ships an in-memory host document, a demo application, and an
inspector that serves the live tree, its mutation journal, and
Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Path to recon.json (default: nearest recon.json)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		demoCmd(g),
		inspectCmd(g),
		snapshotCmd(g),
		configCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and applies flag overrides.
func (g *globals) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog handler selected by cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
