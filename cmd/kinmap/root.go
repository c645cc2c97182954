package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kinmap",
	Short: "Kinmap is a genogram document engine",
	Long:  `Kinmap edits, serves and inspects genogram documents: family trees with partner, child, sibling and support relationships, household boundaries and free-text notes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the kinmap config file")
}
