// Package cmd implements the CLI commands for PagePress using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagepress/config"
)

type ctxKey string

const appKey ctxKey = "app"

// flagKeys maps command flags onto the config keys they override.
var flagKeys = map[string]string{
	"output_dir": "output_dir",
	"listen":     "http_addr",
	"max_pages":  "crawl.max_pages",
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Config is loaded and the app is wired
// before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "pagepress",
		Short: "PagePress — turn Markdown into themed HTML",
		Long: `PagePress normalizes Markdown (list indentation, citation blocks, blank
lines) and renders it as a self-contained HTML page with an embedded theme.
It can also emit Markdown, JSON or PDF, and serve the conversion over HTTP.

Usage:
  pagepress convert <file|url|-> [flags]
  pagepress serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if err := bindFlags(cmd.Flags(), v); err != nil {
				return err
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("invalid config:\n%w", err)
			}

			app, err := buildApp(v, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newThemesCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// bindFlags lets explicitly set flags win over file and env values.
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func getApp(cmd *cobra.Command) *App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*App)
}
