package gallerycmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creative-canvas/canvas/internal/images"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// exportSpec is the YAML export envelope
type exportSpec struct {
	Owner      string                  `yaml:"owner"`
	ExportedAt string                  `yaml:"exportedat"`
	Count      int                     `yaml:"count"`
	Images     []models.GeneratedImage `yaml:"images"`
}

// exportRecord is the flat Parquet row shape
type exportRecord struct {
	ID         string `parquet:"id"`
	Prompt     string `parquet:"prompt"`
	ImageURL   string `parquet:"image_url"`
	Timestamp  int64  `parquet:"timestamp"`
	Visibility string `parquet:"visibility"`
	OwnerID    string `parquet:"owner_id"`
}

// NewExportCmd creates the export command for archiving a gallery
func NewExportCmd() *cobra.Command {
	var flags storeFlags
	var owner string
	var output string
	var imagesDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one owner's gallery to YAML or Parquet",
		Long: `Exports a saved gallery to a file. The output format is chosen by
extension: .yaml/.yml or .parquet. With --images-dir the referenced
image resources are downloaded next to the metadata.`,
		Example: `  # Export metadata to YAML
  canvas gallery export --owner 6f1c9f2e-... --output gallery.yaml

  # Export to Parquet and download the images
  canvas gallery export --owner 6f1c9f2e-... --output gallery.parquet --images-dir ./archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return fmt.Errorf("--owner is required")
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			store, err := flags.open()
			if err != nil {
				return err
			}
			collection, err := loadCollection(cmd.Context(), store, owner)
			if err != nil {
				return err
			}

			switch strings.ToLower(filepath.Ext(output)) {
			case ".yaml", ".yml":
				err = exportYAML(output, owner, collection)
			case ".parquet":
				err = exportParquet(output, collection)
			default:
				return fmt.Errorf("unsupported export format: %s (supported: .yaml, .yml, .parquet)", filepath.Ext(output))
			}
			if err != nil {
				return err
			}
			slog.Info("Exported gallery", "owner", owner, "images", len(collection), "output", output)

			if imagesDir != "" {
				downloadImages(cmd.Context(), collection, imagesDir)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&owner, "owner", "", "Owner identity ID (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, .yaml or .parquet (required)")
	cmd.Flags().StringVar(&imagesDir, "images-dir", "", "Also download each image into this directory")

	return cmd
}

func exportYAML(path, owner string, collection []models.GeneratedImage) error {
	spec := exportSpec{
		Owner:      owner,
		ExportedAt: time.Now().Format("2006-01-02_15-04-05"),
		Count:      len(collection),
		Images:     collection,
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func exportParquet(path string, collection []models.GeneratedImage) error {
	rows := make([]exportRecord, 0, len(collection))
	for _, img := range collection {
		rows = append(rows, exportRecord{
			ID:         img.ID,
			Prompt:     img.Prompt,
			ImageURL:   img.ImageURL,
			Timestamp:  img.Timestamp,
			Visibility: string(img.Visibility),
			OwnerID:    img.OwnerID,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[exportRecord](file)
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func downloadImages(ctx context.Context, collection []models.GeneratedImage, dir string) {
	fetcher := images.NewFetcher()
	downloaded := 0
	for _, img := range collection {
		path := filepath.Join(dir, img.ID+".png")
		if err := fetcher.Download(ctx, img.ImageURL, path); err != nil {
			slog.Warn("Failed to download image", "id", img.ID, "url", img.ImageURL, "error", err)
			continue
		}
		downloaded++
	}
	slog.Info("Downloaded images", "downloaded", downloaded, "total", len(collection), "dir", dir)
}
