package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vizual-ai/vizdash/internal/cache"
	"github.com/vizual-ai/vizdash/internal/config"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/github"
	"github.com/vizual-ai/vizdash/internal/output"
	"github.com/vizual-ai/vizdash/internal/paths"
	"github.com/vizual-ai/vizdash/internal/state"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Precache the dashboard for offline use",
		Long: `Download the dashboard shell and warm the snapshot cache so the
dashboard renders without a network connection.

The shell file list comes from the precache manifest
(<user config dir>/vizdash/precache.yaml); when no manifest exists the
published dashboard pages are used. The install is all-or-nothing: any
fetch failure aborts it and the previous cache generation stays
active. On success, stale generations are deleted.`,
		Example: `  vizdash sync`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			cfg := config.Load()

			dir, err := paths.OfflineCacheDir()
			if err != nil {
				return clierrors.CacheFailed("resolve cache directory", err)
			}

			store, err := cache.NewDiskStore(dir)
			if err != nil {
				return clierrors.CacheFailed("open cache directory", err)
			}

			manifest, err := loadPrecacheManifest(cfg)
			if err != nil {
				return err
			}

			manager := newCacheManager(cfg, store)

			spin := out.Spinner(fmt.Sprintf("Precaching shell (%d files)", len(manifest.Shell)))
			spin.Start()

			if err := manager.Install(cmd.Context(), manifest); err != nil {
				spin.StopWithFailure("Precache failed")
				return err
			}

			if err := manager.Activate(); err != nil {
				spin.StopWithFailure("Activation failed")
				return err
			}

			spin.StopWithSuccess(fmt.Sprintf("Shell cached (%s)", shellGeneration()))

			// Warm the snapshot cache through the now-active manager so the
			// stale-while-revalidate route has entries to serve offline.
			spin = out.Spinner("Warming snapshot cache")
			spin.Start()

			client := &http.Client{Transport: manager, Timeout: github.DefaultTimeout}
			loader := state.NewLoader(cfg.SnapshotBase(), client)

			index := loader.OrgIndex(cmd.Context())
			loader.ProjectMap(cmd.Context())
			loader.Memory(cmd.Context())

			if index.GeneratedAt.IsZero() {
				spin.StopWithWarning("Snapshots unreachable; cached copies (if any) remain")
			} else {
				spin.StopWithSuccess(fmt.Sprintf("Snapshots cached (%d repos)", len(index.Repos)))
			}

			return nil
		},
	}
}

// loadPrecacheManifest reads the user manifest, falling back to the
// published dashboard pages when none exists.
func loadPrecacheManifest(cfg *config.Config) (cache.Manifest, error) {
	path, err := paths.PrecacheManifestFile()
	if err != nil {
		return cache.Manifest{}, clierrors.CacheFailed("resolve manifest path", err)
	}

	manifest, err := cache.LoadManifest(path)
	if err != nil {
		return cache.Manifest{}, clierrors.CacheFailed("read precache manifest", err)
	}

	if len(manifest.Shell) == 0 {
		base := cfg.SnapshotBase()
		manifest.Shell = []string{
			base + "/",
			base + "/index.html",
		}
	}

	return manifest, nil
}
