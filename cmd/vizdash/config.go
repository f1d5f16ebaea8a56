package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/config"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View and modify vizdash configuration settings.`,
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		Long:  `Display all configuration settings and their current values. Shows available settings with defaults when none are set.`,
		Example: `  vizdash config list
  vizdash config list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()
			settings := cfg.All()

			if out.JSON {
				return out.PrintJSON(settings)
			}

			if len(settings) == 0 {
				out.Muted("No configuration set.")
				out.Println()
				out.Println("Available settings:")

				out.Print("  github.org             Organization to render (default: %s)\n", config.DefaultOrg)
				out.Print("  github.api_url         GitHub REST API URL (default: %s)\n", config.DefaultAPIURL)
				out.Print("  github.graphql_url     GitHub GraphQL URL (default: %s)\n", config.DefaultGraphQLURL)
				out.Print("  snapshot.base_url      Snapshot base URL (default: %s)\n", config.DefaultSnapshotBase)
				out.Print("  cache.cdn_host         CDN host for cache classification (default: %s)\n", config.DefaultCDNHost)
				out.Print("  gateway.probe_timeout  Per-endpoint probe timeout (default: %s)\n", config.DefaultProbeTimeout)
				out.Print("  ui.theme               Dashboard theme (default: %s)\n", config.DefaultTheme)

				return nil
			}

			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}

			sort.Strings(keys)

			for _, key := range keys {
				value := settings[key]
				out.Print("%s = %v\n", key, value)
			}

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Long:    `Retrieve and display the current value of a single configuration key.`,
		Example: `  vizdash config get github.org`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key := args[0]
			cfg := config.Load()
			value := cfg.Get(key)

			if value == nil {
				out.Muted("%s is not set", key)
				return nil
			}

			out.Print("%s = %v\n", key, value)

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Long:    `Set a configuration key to the given value. The value is persisted to the config file.`,
		Example: `  vizdash config set ui.theme light`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key, value := args[0], args[1]
			cfg := config.Load()

			if err := cfg.Set(key, value); err != nil {
				return clierrors.ConfigFailed("set config", err)
			}

			out.Success("Set %s = %s", key, value)

			return nil
		},
	}
}
