package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	runway "github.com/runwayhq/runway-go"
)

// rootCmd is the base command for the runway CLI
var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Interact with the Runway API",
	Long: `A command-line client for the Runway job orchestration platform.

Credentials come from the RUNWAY_API_KEY environment variable or the
--api-key flag; RUNWAY_API_ENDPOINT overrides the API endpoint.`,
	SilenceUsage: true,
}

var (
	flagAPIKey   string
	flagEndpoint string
	flagVerbose  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key (defaults to RUNWAY_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "API endpoint override")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log retry and transport details")
}

// buildClient assembles a client from flags and the environment.
func buildClient() (*runway.Client, error) {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "runway",
		Level:  level,
		Output: os.Stderr,
	})

	opts := []runway.Option{
		runway.WithLogger(logger),
		runway.WithUserAgentPrefix("runway-cli"),
	}
	if flagAPIKey != "" {
		opts = append(opts, runway.WithAPIKey(flagAPIKey))
	}
	if flagEndpoint != "" {
		opts = append(opts, runway.WithEndpoint(flagEndpoint))
	}
	return runway.NewClient(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
