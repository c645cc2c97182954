package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avelar0/kinmap/internal/presentation/tui"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a readable summary of a genogram",
	Long:  `Reads a genogram document and prints a markdown summary of its people, relationships and households, rendered for the terminal.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := readDocument(args)
		if err != nil {
			fmt.Printf("Error reading document: %v\n", err)
			os.Exit(1)
		}

		markdown := tui.DocumentMarkdown(doc)
		markdown += tui.NodeDetailsMarkdown(cmd.Context(), doc, tui.DefaultNodeRegistry())

		// Plain markdown when piped, styled when on a terminal.
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(markdown)
			return
		}

		tui.PrintBanner()
		render := tui.NewRenderer()
		out, err := render(markdown)
		if err != nil {
			fmt.Print(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
