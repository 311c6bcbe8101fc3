package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// specCmd groups operations on the cached OpenAPI document
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Inspect the cached API specification",
}

var specShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the operations the API exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		doc, err := client.SpecCache().Load(cmd.Context(), false)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n\n", doc.Info.Title, doc.Info.Version)

		paths := make([]string, 0, len(doc.Paths))
		for p := range doc.Paths {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			methods := make([]string, 0, len(doc.Paths[p]))
			for m := range doc.Paths[p] {
				methods = append(methods, m)
			}
			sort.Strings(methods)
			for _, m := range methods {
				op := doc.Paths[p][m]
				line := fmt.Sprintf("%-6s %s", m, p)
				if op.Summary != "" {
					line += "  # " + op.Summary
				}
				if op.Deprecated {
					line += " (deprecated)"
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

var specRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force re-download of the API specification",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		doc, err := client.SpecCache().Load(cmd.Context(), true)
		if err != nil {
			return err
		}
		fmt.Printf("refreshed: %s %s (%d paths)\n", doc.Info.Title, doc.Info.Version, len(doc.Paths))
		return nil
	},
}

func init() {
	specCmd.AddCommand(specShowCmd)
	specCmd.AddCommand(specRefreshCmd)
	rootCmd.AddCommand(specCmd)
}
