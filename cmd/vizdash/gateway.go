package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/config"
	"github.com/vizual-ai/vizdash/internal/gateway"
	"github.com/vizual-ai/vizdash/internal/output"
)

func newGatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Monitor and manage gateway endpoints",
		Long: `Check the reachability of the tunnel and AI endpoints and manage
the custom endpoint list.

A check probes every endpoint once, concurrently, with a HEAD request.
Any response counts as online; a transport error or timeout counts as
offline.`,
	}

	cmd.AddCommand(newGatewayCheckCmd())
	cmd.AddCommand(newGatewayListCmd())
	cmd.AddCommand(newGatewayAddCmd())
	cmd.AddCommand(newGatewayClearCmd())
	cmd.AddCommand(newGatewaySetURLCmd())

	return cmd
}

// endpointResult is one probe outcome for JSON output.
type endpointResult struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Group  string `json:"group"`
	Custom bool   `json:"custom,omitempty"`
	Status string `json:"status"`
}

// checkReport is the settled probe batch for JSON output.
type checkReport struct {
	TunnelOnline bool             `json:"tunnelOnline"`
	Endpoints    []endpointResult `json:"endpoints"`
}

func newGatewayCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe all endpoints once",
		Long: `Probe every configured endpoint concurrently and print the settled
statuses plus the overall gateway reachability.`,
		Example: `  vizdash gateway check
  vizdash gateway check --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			monitor, _, err := newMonitor(cfg)
			if err != nil {
				return err
			}

			var spin *output.Spinner
			if !out.JSON {
				spin = out.Spinner("Probing endpoints")
				spin.Start()
			}

			report := monitor.RefreshAll(cmd.Context())

			if spin != nil {
				spin.Stop()
			}

			if out.JSON {
				return out.PrintJSON(toCheckReport(report))
			}

			for _, ep := range report.Endpoints {
				printEndpointStatus(out, ep, report.Statuses[ep.ID])
			}

			out.Println()

			if report.TunnelOnline {
				out.Success("Gateway reachable")
			} else {
				out.Failure("Gateway unreachable (no tunnel endpoint online)")
			}

			return nil
		},
	}
}

func newGatewayListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured endpoints without probing",
		Long: `List the merged endpoint set: built-in tunnel endpoints (with any
saved URL overrides applied), built-in AI endpoints, and custom
endpoints.`,
		Example: `  vizdash gateway list
  vizdash gateway list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			monitor, _, err := newMonitor(cfg)
			if err != nil {
				return err
			}

			endpoints := monitor.List()

			if out.JSON {
				return out.PrintJSON(endpoints)
			}

			for _, ep := range endpoints {
				label := ep.Label
				if ep.Custom {
					label += " (custom)"
				}

				out.Print("%s %-28s %-6s %s\n", ep.Icon, label, ep.Group, ep.URL)
			}

			return nil
		},
	}
}

func newGatewayAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <label> <url>",
		Short:   "Add a custom endpoint",
		Long:    `Add a custom endpoint to the monitored set. The URL must be an absolute http(s) URL.`,
		Example: `  vizdash gateway add "Local vLLM" http://localhost:8000`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			monitor, _, err := newMonitor(cfg)
			if err != nil {
				return err
			}

			ep, err := monitor.AddCustom(args[0], args[1])
			if err != nil {
				return err
			}

			// Probe the new endpoint right away so the first status the
			// user sees is settled, not a guess.
			status := (&gateway.HTTPProber{Timeout: cfg.ProbeTimeout()}).Probe(cmd.Context(), ep.URL)

			out.Success("Added %s (%s)", ep.Label, ep.ID)
			printEndpointStatus(out, ep, status)

			return nil
		},
	}
}

func newGatewayClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Remove all custom endpoints",
		Long:    `Remove every user-added custom endpoint. Built-in endpoints are unaffected.`,
		Example: `  vizdash gateway clear`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			monitor, _, err := newMonitor(cfg)
			if err != nil {
				return err
			}

			if err := monitor.ClearCustom(); err != nil {
				return err
			}

			out.Success("Custom endpoints cleared")

			return nil
		},
	}
}

func newGatewaySetURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <id> [url]",
		Short: "Override a built-in tunnel endpoint URL",
		Long: `Save a URL override for a built-in tunnel endpoint. Omit the URL to
clear a saved override and return to the built-in address.`,
		Example: `  vizdash gateway set-url vizual-x https://staging.vizual-x.com
  vizdash gateway set-url vizual-x`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			monitor, _, err := newMonitor(cfg)
			if err != nil {
				return err
			}

			rawURL := ""
			if len(args) == 2 {
				rawURL = args[1]
			}

			if err := monitor.SetTunnelOverride(args[0], rawURL); err != nil {
				return err
			}

			if rawURL == "" {
				out.Success("Cleared URL override for %s", args[0])
			} else {
				out.Success("Set %s URL to %s", args[0], rawURL)
			}

			return nil
		},
	}
}

func toCheckReport(report gateway.Report) checkReport {
	result := checkReport{
		TunnelOnline: report.TunnelOnline,
		Endpoints:    make([]endpointResult, 0, len(report.Endpoints)),
	}

	for _, ep := range report.Endpoints {
		result.Endpoints = append(result.Endpoints, endpointResult{
			ID:     ep.ID,
			Label:  ep.Label,
			URL:    ep.URL,
			Group:  string(ep.Group),
			Custom: ep.Custom,
			Status: string(report.Statuses[ep.ID]),
		})
	}

	return result
}

func printEndpointStatus(out *output.Writer, ep gateway.Endpoint, status gateway.Status) {
	line := fmt.Sprintf("%-28s %s", ep.Label, ep.URL)

	switch status {
	case gateway.StatusOnline:
		out.Success("%s", line)
	case gateway.StatusOffline:
		out.Failure("%s", line)
	default:
		out.Warning("%s", line)
	}
}
