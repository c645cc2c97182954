package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avelar0/kinmap/internal/cli"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the editor over stdin/stdout",
	Long:  `Starts a headless editing session: JSON commands in, JSON responses out, one object per line. Edits are flushed to the configured store when the stream ends.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		docID, _ := cmd.Flags().GetString("document")

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if docID == "" {
			docID = cfg.Autosave.DocumentID
		}

		// Logs must stay off stdout, it carries the response stream.
		logger := cli.CreateLogger(cfg.Debug)

		store, err := cli.CreateStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating store: %v\n", err)
			os.Exit(1)
		}

		editor, err := cli.CreateEditor(cmd.Context(), cfg, logger, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing editor: %v\n", err)
			os.Exit(1)
		}
		defer editor.Close()

		if doc, err := store.Load(cmd.Context(), docID); err == nil {
			if err := editor.Load(cmd.Context(), doc); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
				os.Exit(1)
			}
		} else if !errors.Is(err, domain.ErrDocumentNotFound) {
			fmt.Fprintf(os.Stderr, "Error reading document: %v\n", err)
			os.Exit(1)
		}

		r := runner.New(editor,
			runner.WithLogger(logger),
			runner.WithStore(store, docID),
		)
		if err := r.Run(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Session error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("document", "d", "", "Document id to load and save")
}
