package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindui/internal/config"
	"github.com/vango-dev/bindui/internal/errors"
)

func initCmd(g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a bindui.json with the resolved settings",
		Long: `Write bindui.json into the --dir directory using the current
settings (defaults, environment overrides and flags).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(g.dir) && !force {
				return errors.New("B040").
					WithDetail(config.ConfigFileName + " already exists in " + g.dir).
					WithSuggestion("Pass --force to overwrite it")
			}
			path := filepath.Join(g.dir, config.ConfigFileName)
			if err := g.cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func codesCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "codes [code...]",
		Short: "Describe diagnostic codes",
		Long: `List every diagnostic code bindui logs or returns, or describe the
given codes in detail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				errors.DisableColors()
				defer errors.EnableColors()
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					fmt.Fprintln(out, errors.New(code).FormatCompact())
				}
				return nil
			}
			for _, code := range args {
				if _, ok := errors.GetTemplate(code); !ok {
					return fmt.Errorf("unknown code %q", code)
				}
				fmt.Fprintln(out, errors.New(code).Format())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}
