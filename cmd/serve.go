package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/creative-canvas/canvas/internal/auth"
	"github.com/creative-canvas/canvas/internal/config"
	"github.com/creative-canvas/canvas/internal/enhance"
	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/handlers"
	"github.com/creative-canvas/canvas/internal/imagegen"
	"github.com/creative-canvas/canvas/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the canvas web app",
		Long: `Starts the canvas web interface on the specified port.

The web interface lets you generate images from text prompts and save
them into a gallery scoped to an anonymous identity. The gallery
persists across restarts in the configured storage backend.`,
		Example: `  # Start server on default port 8888
  canvas serve

  # Start server on custom port
  canvas serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			store, err := storage.Open(cfg.StorageBackend, cfg.DataDir, cfg.SQLitePath)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}

			enhancer, err := enhance.ForProvider(cfg.EnhanceProvider)
			if err != nil {
				return err
			}

			provider := auth.NewLocalProvider(store)
			session := auth.NewSessionStore(provider)
			defer session.Close()
			images := gallery.NewStore(store, session)
			defer images.Close()

			// Resolve the persisted identity before serving so the
			// gallery reflects it from the first request.
			if err := provider.Resolve(cmd.Context()); err != nil {
				slog.Error("Failed to resolve persisted identity", "err", err)
			}

			handler := handlers.New(handlers.Options{
				Session:      session,
				Gallery:      images,
				Generator:    imagegen.NewClient(cfg.ImageEndpoint, cfg.PlaceholderEndpoint),
				Enhancer:     enhancer,
				EnhanceModel: cfg.EnhanceModel,
				StaticDir:    cfg.StaticDir,
			})

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/session", handler.HandleSession)
			mux.HandleFunc("/api/generate", handler.HandleGenerate)
			mux.HandleFunc("/api/images", handler.HandleImages)
			mux.HandleFunc("/api/images/", handler.HandleImageDetail)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Canvas interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
