package cmd

import (
	"github.com/creative-canvas/canvas/internal/gallerycmd"
	"github.com/spf13/cobra"
)

func newGalleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Inspect and maintain saved galleries",
		Long: `Offline tools for the galleries persisted by the canvas server.

Operates directly on the storage backend, so the server does not need to
be running. Supports listing owners and their saved images, exporting a
gallery to YAML or Parquet (optionally downloading the images), and
pruning old entries.`,
	}

	// Add gallery subcommands
	cmd.AddCommand(gallerycmd.NewListCmd())
	cmd.AddCommand(gallerycmd.NewExportCmd())
	cmd.AddCommand(gallerycmd.NewPruneCmd())

	return cmd
}
