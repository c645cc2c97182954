package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/avelar0/kinmap/internal/autosave"
	"github.com/avelar0/kinmap/internal/cli"
	"github.com/avelar0/kinmap/pkg/adapters/httpapi"
	"github.com/avelar0/kinmap/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the genogram HTTP server",
	Long:  `Starts the kinmap editor in server mode, exposing the document and gesture API as JSON over HTTP, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if err := runServe(cmd, configPath); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen, _ = cmd.Flags().GetString("listen")
	}

	logger := cli.CreateLogger(cfg.Debug)

	ctx := context.Background()

	store, err := cli.CreateStore(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	editor, err := cli.CreateEditor(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer editor.Close()

	observability.RegisterEditorGauges(reg, func() observability.EditorStats {
		return observability.EditorStats(editor.Stats())
	})

	// Resume the stored document, reserving the id on first run.
	docID := cfg.Autosave.DocumentID
	doc, err := store.LoadOrCreate(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", docID, err)
	}
	if err := editor.Load(ctx, doc); err != nil {
		return fmt.Errorf("failed to load document %s: %w", docID, err)
	}
	logger.Info("Document resumed", "document_id", docID, "people", len(doc.People))

	stopAutosave := func() {}
	if cfg.Autosave.Enabled {
		interval := cfg.Autosave.ParsedInterval(autosave.DefaultInterval)
		stopAutosave = editor.EnableAutosave(ctx, store, docID, interval)
	}
	defer stopAutosave()

	mux := chi.NewRouter()
	mux.Mount("/", httpapi.NewHandler(editor, httpapi.WithLogger(logger)))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Printf("Starting Kinmap Server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}

		// Flush unsaved edits before exit.
		stopAutosave()
		if editor.Dirty() {
			if err := store.Save(shutdownCtx, docID, editor.Document()); err != nil {
				logger.Warn("Final save failed", "err", err)
			} else {
				editor.MarkSaved()
			}
		}
		fmt.Println("Kinmap Server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", ":8080", "Address to listen on")
}
