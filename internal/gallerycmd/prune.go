package gallerycmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/spf13/cobra"
)

// NewPruneCmd creates the prune command for deleting old gallery entries
func NewPruneCmd() *cobra.Command {
	var flags storeFlags
	var owner string
	var olderThan time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete gallery entries older than a cutoff",
		Example: `  # Drop everything older than 30 days
  canvas gallery prune --owner 6f1c9f2e-... --older-than 720h

  # See what would be deleted first
  canvas gallery prune --owner 6f1c9f2e-... --older-than 720h --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return fmt.Errorf("--owner is required")
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be a positive duration")
			}

			store, err := flags.open()
			if err != nil {
				return err
			}
			collection, err := loadCollection(cmd.Context(), store, owner)
			if err != nil {
				return err
			}

			cutoff := time.Now().Add(-olderThan).UnixMilli()
			kept := make([]models.GeneratedImage, 0, len(collection))
			for _, img := range collection {
				if img.Timestamp >= cutoff {
					kept = append(kept, img)
				}
			}
			pruned := len(collection) - len(kept)

			if dryRun {
				slog.Info("Dry run, nothing deleted", "owner", owner, "would_prune", pruned, "would_keep", len(kept))
				return nil
			}
			if pruned == 0 {
				slog.Info("Nothing to prune", "owner", owner, "images", len(collection))
				return nil
			}

			raw, err := gallery.EncodeCollection(kept)
			if err != nil {
				return err
			}
			if err := store.Set(cmd.Context(), gallery.Key(owner), raw); err != nil {
				return fmt.Errorf("failed to persist pruned gallery: %w", err)
			}

			slog.Info("Pruned gallery", "owner", owner, "pruned", pruned, "kept", len(kept))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&owner, "owner", "", "Owner identity ID (required)")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Delete entries older than this duration (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be deleted without deleting")

	return cmd
}
