package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	runway "github.com/runwayhq/runway-go"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runway-go %s (%s)\n", runway.Version, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
