package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/config"
	"github.com/vizual-ai/vizdash/internal/dash"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/output"
)

func newViewCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "view <section>",
		Short: "Render a single dashboard section",
		Long: `Render one dashboard section to stdout without entering the
interactive dashboard. Useful for scripts and quick checks.

Sections: ` + strings.Join(dash.SectionOrder, ", ") + `

The gateway and vault sections probe the endpoint set before
rendering; pass --probe to force a probe batch for other sections.`,
		Example: `  vizdash view overview
  vizdash view vault
  vizdash view gateway --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			section := args[0]

			if !dash.KnownSection(section) {
				return clierrors.SectionUnknown(section)
			}

			cfg := config.Load()

			source, err := newSource(cfg)
			if err != nil {
				return err
			}

			data := source.Load(cmd.Context())

			// Sections that render endpoint statuses need a settled batch.
			if probe || section == dash.SectionGateway || section == dash.SectionVault {
				data.Report = source.Refresh(cmd.Context())
			}

			if out.JSON {
				return out.PrintJSON(data)
			}

			rendered, err := dash.Render(section, data, out.Terminal().RenderWidth())
			if err != nil {
				return err
			}

			out.Println(rendered)

			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Probe endpoints before rendering")

	return cmd
}
