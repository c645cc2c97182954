package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avelar0/kinmap/internal/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a genogram document for consistency",
	Long:  `Parses a genogram document and reports relationships whose endpoints no longer resolve and households with missing members.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Document is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	doc, err := readDocument(args)
	if err != nil {
		return err
	}

	store := graph.NewStore()
	store.LoadFromData(doc)

	if dangling := store.Dangling(); len(dangling) > 0 {
		for _, r := range dangling {
			fmt.Printf("dangling relationship: %s (%s)\n", r.ID, r.Kind)
		}
		return fmt.Errorf("%d dangling relationship(s)", len(dangling))
	}

	missing := 0
	for _, h := range doc.Households {
		for _, id := range h.Members {
			if _, ok := doc.PersonByID(id); !ok {
				fmt.Printf("household %s references missing person %s\n", h.ID, id)
				missing++
			}
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d missing household member(s)", missing)
	}

	return nil
}
