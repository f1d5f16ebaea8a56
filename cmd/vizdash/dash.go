package main

import (
	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/config"
	"github.com/vizual-ai/vizdash/internal/dash"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/output"
)

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard",
		Long: `Open the full-screen terminal dashboard.

Keys:
  tab / shift+tab   Cycle sections
  r                 Re-probe all endpoints
  q                 Quit

Snapshots load once on startup; endpoint probes run as one batch and
can be re-triggered with 'r'. When the offline cache is installed the
dashboard renders from cache without a network connection.`,
		Example: `  vizdash dash`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if !out.Terminal().IsTTY {
				return &clierrors.CLIError{
					Message: "The dashboard requires an interactive terminal",
					Hint:    "Use 'vizdash view <section>' in scripts and pipelines",
					Code:    clierrors.ExitUsage,
				}
			}

			cfg := config.Load()

			source, err := newSource(cfg)
			if err != nil {
				return err
			}

			model := dash.NewModel(source.Load, source.Refresh)

			return dash.Run(model)
		},
	}
}
