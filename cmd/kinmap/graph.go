package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avelar0/kinmap/internal/presentation/graph"
	"github.com/avelar0/kinmap/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the genogram visualization",
	Long:  `Reads a genogram document and outputs a Mermaid diagram (graph TD) of its people, relationships and households.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := readDocument(args)
		if err != nil {
			fmt.Printf("Error reading document: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(doc, nil)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func readDocument(args []string) (*domain.Document, error) {
	path := "genogram.json"
	if len(args) > 0 {
		path = args[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.Parse(data)
}
