package main

import (
	"context"
	"fmt"
	"strings"

	selfupdate "github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/buildinfo"
	"github.com/vizual-ai/vizdash/internal/output"
	"github.com/vizual-ai/vizdash/internal/update"
)

const releasesURL = "https://github.com/vizual-ai/vizdash/releases"

func newUpdateCmd() *cobra.Command {
	var (
		targetVersion string
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update vizdash to the latest version",
		Long: `Update vizdash to the latest version from GitHub Releases.

Downloads the new binary, verifies its checksum, and replaces the current
executable. If the binary is not writable, sudo is requested automatically.

Set VIZDASH_UPDATE_DISABLED=1 to disable update checks.`,
		Example: `  vizdash update
  vizdash update --version 1.2.3`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			return runUpdate(cmd, out, targetVersion, force)
		},
	}

	cmd.Flags().StringVar(&targetVersion, "version", "", "Install a specific version (e.g. 1.2.3)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force update even if already up to date")

	return cmd
}

func runUpdate(cmd *cobra.Command, out *output.Writer, targetVersion string, force bool) error {
	ctx := cmd.Context()

	if isUpdateDisabled() {
		out.Warning("Updates are disabled (VIZDASH_UPDATE_DISABLED is set)")
		return nil
	}

	currentVersion := buildinfo.Version

	// Dev builds have no version to compare against.
	if currentVersion == "dev" && targetVersion == "" {
		out.Warning("Development build — cannot determine current version")
		out.Info("Install a release build: %s", releasesURL)

		return nil
	}

	updater, err := update.NewUpdater()
	if err != nil {
		return fmt.Errorf("failed to initialize updater: %w", err)
	}

	if targetVersion != "" {
		return updateToVersion(ctx, out, updater, strings.TrimPrefix(targetVersion, "v"))
	}

	// Spinners corrupt stdout in JSON mode, so only spin on a terminal.
	var spin *output.Spinner
	if !out.JSON {
		spin = out.Spinner("Checking for updates")
		spin.Start()
	}

	info, err := updater.CheckLatest(ctx, currentVersion)
	if err != nil {
		if spin != nil {
			spin.StopWithFailure(fmt.Sprintf("Failed to check for updates: %v", err))
		}

		if strings.Contains(err.Error(), "403") {
			out.Hint("set GITHUB_TOKEN to avoid rate limits")
		} else {
			out.Hint("run 'vizdash doctor' to diagnose connectivity")
		}

		return fmt.Errorf("update check failed: %w", err)
	}

	// JSON mode reports the check result without applying anything.
	if out.JSON {
		if printErr := out.PrintJSON(info); printErr != nil {
			return fmt.Errorf("print update info as json: %w", printErr)
		}

		return nil
	}

	if !info.UpdateAvailable && !force {
		spin.StopWithSuccess(fmt.Sprintf("Already up to date (v%s)", currentVersion))
		_ = update.RecordCheck(currentVersion, info)

		return nil
	}

	// No Release means no asset matched this platform.
	if info.Release == nil {
		spin.StopWithFailure("No release found for this platform")
		out.Hint("check available builds at %s", releasesURL)

		return fmt.Errorf("no release found for this platform")
	}

	if info.UpdateAvailable {
		spin.StopWithSuccess(fmt.Sprintf("Update available: v%s → v%s", currentVersion, info.LatestVersion))
	} else {
		spin.StopWithSuccess(fmt.Sprintf("Reinstalling v%s", info.LatestVersion))
	}

	if done, err := elevateIfNeeded(); done || err != nil {
		return err
	}

	spin = out.Spinner(fmt.Sprintf("Downloading v%s", info.LatestVersion))
	spin.Start()

	if err := updater.Apply(ctx, info.Release); err != nil {
		spin.StopWithFailure(fmt.Sprintf("Update failed: %v", err))
		return fmt.Errorf("update failed: %w", err)
	}

	spin.StopWithSuccess(fmt.Sprintf("Updated to v%s", info.LatestVersion))

	if info.ReleaseURL != "" {
		out.Muted("Release notes: %s", info.ReleaseURL)
	}

	_ = update.RecordCheck(currentVersion, info)

	return nil
}

func updateToVersion(ctx context.Context, out *output.Writer, updater *update.Updater, version string) error {
	if done, err := elevateIfNeeded(); done || err != nil {
		return err
	}

	var spin *output.Spinner
	if !out.JSON {
		spin = out.Spinner(fmt.Sprintf("Installing v%s", version))
		spin.Start()
	}

	release, err := updater.ApplyVersion(ctx, version)
	if err != nil {
		if spin != nil {
			spin.StopWithFailure(fmt.Sprintf("Failed to install v%s: %v", version, err))
		}

		if strings.Contains(err.Error(), "not found") {
			out.Hint("check available versions at %s", releasesURL)
		}

		return fmt.Errorf("install failed: %w", err)
	}

	if spin != nil {
		spin.StopWithSuccess(fmt.Sprintf("Installed v%s", release.Version()))
	}

	return nil
}

// elevateIfNeeded re-execs under sudo when the installed binary is
// not writable. It returns done=true when the process was handed off;
// the caller must not continue applying the update.
func elevateIfNeeded() (bool, error) {
	execPath, err := selfupdate.ExecutablePath()
	if err != nil || !update.NeedsElevation(execPath) {
		return false, nil
	}

	if sudoErr := update.ReExecWithSudo(); sudoErr != nil {
		return true, fmt.Errorf("re-exec updater with sudo: %w", sudoErr)
	}

	return true, nil
}

func isUpdateDisabled() bool {
	return update.IsDisabled()
}
