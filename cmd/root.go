package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "AI image generation app with per-user galleries",
		Long: `Canvas serves a small web app for generating images from text prompts.

Generated images can be saved into a personal gallery that persists per
anonymous identity, and the gallery can be inspected, exported and pruned
from the command line.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGalleryCmd())

	return cmd
}
