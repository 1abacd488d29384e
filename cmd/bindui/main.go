package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindui/internal/config"
	"github.com/vango-dev/bindui/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags and the state resolved from them.
type globals struct {
	dir       string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

// load resolves the configuration and applies flag overrides.
func (g *globals) load(stderr io.Writer) error {
	cfg, err := config.Resolve(g.dir)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	g.logger = cfg.Logger(stderr)
	slog.SetDefault(g.logger)
	return nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "bindui",
		Short: "Render and follow keyed component collections",
		Long: `bindui binds JSON snapshots onto HTML templates.

A collection is a container element plus a template element. Every
snapshot entry gets its own copy of the template, keyed by its primary
key, and named descendants (name or data-name) receive the entry's
values. Entries are kept stable across snapshots and removed when they
disappear.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "codes" {
				return nil
			}
			return g.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Directory to search for bindui.json")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from bindui.json)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text or json (default from bindui.json)")

	rootCmd.AddCommand(
		renderCmd(g),
		followCmd(g),
		initCmd(g),
		codesCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var be *errors.BindError
		if stderrors.As(err, &be) {
			fmt.Fprint(os.Stderr, be.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}
