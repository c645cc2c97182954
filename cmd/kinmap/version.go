package main

import (
	"fmt"
	"strings"

	"github.com/avelar0/kinmap"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kinmap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kinmap version %s\n", strings.TrimSpace(kinmap.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
