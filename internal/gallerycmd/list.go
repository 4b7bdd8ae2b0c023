package gallerycmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command for inspecting saved galleries
func NewListCmd() *cobra.Command {
	var flags storeFlags
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gallery owners or one owner's saved images",
		Example: `  # List every owner with a saved gallery
  canvas gallery list

  # List one owner's images
  canvas gallery list --owner 6f1c9f2e-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}

			if owner == "" {
				owners, err := listOwners(cmd.Context(), store)
				if err != nil {
					return err
				}
				if len(owners) == 0 {
					fmt.Println("No galleries found")
					return nil
				}
				for _, id := range owners {
					fmt.Println(id)
				}
				return nil
			}

			images, err := loadCollection(cmd.Context(), store, owner)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tVISIBILITY\tPROMPT")
			for _, img := range images {
				created := time.UnixMilli(img.Timestamp).Format(time.RFC3339)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", img.ID, created, img.Visibility, img.Prompt)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&owner, "owner", "", "Owner identity ID")

	return cmd
}
