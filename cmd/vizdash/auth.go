package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/auth"
	"github.com/vizual-ai/vizdash/internal/config"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/output"
	"github.com/vizual-ai/vizdash/internal/prompt"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  `Store and validate the GitHub token used for live dashboard data.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a GitHub token",
		Long: `Store a GitHub personal access token for authenticated requests.

The token will be stored securely in your system's keyring
(macOS Keychain, Windows Credential Manager, or Linux Secret Service).

You can also set the GITHUB_TOKEN environment variable. Without a
token the dashboard still works, but security panels stay empty and
API rate limits are much lower.`,
		Example: `  vizdash auth login
  vizdash auth login --token ghp_xxxx`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			prompter := prompt.New(out)

			// Check if already authenticated via env var
			if t := os.Getenv("GITHUB_TOKEN"); t != "" {
				out.Info("GITHUB_TOKEN environment variable is set")
				out.Muted("Environment variable takes precedence over stored credentials")
				out.Println()
			}

			var token string
			if tokenFlag != "" {
				token = tokenFlag
			} else {
				// Interactive flow: prompt for the token
				if !prompter.CanPrompt() {
					return clierrors.CannotPrompt("GITHUB_TOKEN")
				}

				var err error

				token, err = prompter.Password("Enter your GitHub token")
				if err != nil {
					return fmt.Errorf("read token prompt: %w", err)
				}
			}

			if token == "" {
				return clierrors.TokenEmpty()
			}

			// Validate with spinner
			spin := out.Spinner("Validating token")
			spin.Start()

			cfg := config.Load()
			client := newValidationClient(cfg, token)

			user, err := client.ValidateToken(cmd.Context())
			if err != nil {
				spin.StopWithFailure("Invalid token")
				return clierrors.AuthFailed(err)
			}

			spin.Stop()

			// Store in keyring
			if err := auth.StoreToken(token); err != nil {
				return clierrors.ConfigFailed("store credentials", err)
			}

			out.Success("Authenticated as %s", user.Login)

			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "Token for non-interactive login (prefer GITHUB_TOKEN env var to avoid shell history exposure)")

	return cmd
}

// AuthStatus represents authentication status for JSON output.
type AuthStatus struct {
	Source string `json:"source"`
	Login  string `json:"login"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  `Show where the GitHub token was loaded from and validate it against the API.`,
		Example: `  vizdash auth status
  vizdash auth status --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			source, client := newGitHubClient(cfg)
			if !client.HasToken() {
				return clierrors.NotAuthenticated()
			}

			// Validate with spinner
			spin := out.Spinner("Checking credentials")
			spin.Start()

			user, err := client.ValidateToken(cmd.Context())
			if err != nil {
				spin.StopWithFailure("Token invalid")
				return clierrors.TokenInvalid(err)
			}

			spin.StopWithSuccess("Authenticated")

			if out.JSON {
				if err := out.PrintJSON(AuthStatus{
					Source: string(source),
					Login:  user.Login,
				}); err != nil {
					return fmt.Errorf("print auth status json: %w", err)
				}

				return nil
			}

			out.Print("Source: %s\n", source)
			out.Print("Login:  %s\n", user.Login)

			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Clear the stored token",
		Long:    `Remove the stored GitHub token from the keyring and the file fallback.`,
		Example: `  vizdash auth logout`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			prompter := prompt.New(out)
			if prompter.CanPrompt() {
				ok, err := prompter.Confirm("Remove the stored GitHub token?", false)
				if err != nil {
					return fmt.Errorf("read confirmation: %w", err)
				}

				if !ok {
					out.Muted("Keeping stored credentials")
					return nil
				}
			}

			if err := auth.DeleteToken(); err != nil {
				// If the token doesn't exist, that's fine
				if strings.Contains(err.Error(), "not found") {
					out.Muted("No stored credentials found")
					return nil
				}

				return clierrors.ConfigFailed("clear credentials", err)
			}

			out.Success("Logged out successfully")

			if os.Getenv("GITHUB_TOKEN") != "" {
				out.Println()
				out.Warning("GITHUB_TOKEN environment variable is still set")
			}

			return nil
		},
	}
}
