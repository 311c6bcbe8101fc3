package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagQuery    []string
	flagBody     string
	flagOriginal bool
)

// callCmd issues a raw API request and prints the normalized response
var callCmd = &cobra.Command{
	Use:   "call METHOD PATH",
	Short: "Issue a raw API request",
	Long: `Send a single request to the API and print the JSON response.

Query parameters are given as repeated --query key=value flags; a value
containing commas becomes an array parameter. The body is inline JSON or
@filename.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		query := url.Values{}
		for _, pair := range flagQuery {
			key, value, found := strings.Cut(pair, "=")
			if !found {
				return fmt.Errorf("malformed query parameter %q, want key=value", pair)
			}
			for _, v := range strings.Split(value, ",") {
				query.Add(key, v)
			}
		}

		var body any
		if flagBody != "" {
			raw := []byte(flagBody)
			if strings.HasPrefix(flagBody, "@") {
				raw, err = os.ReadFile(flagBody[1:])
				if err != nil {
					return err
				}
			}
			if err := json.Unmarshal(raw, &body); err != nil {
				return fmt.Errorf("request body is not valid JSON: %w", err)
			}
		}

		resp, err := client.Call(cmd.Context(), args[0], args[1], query, body)
		if err != nil {
			return err
		}

		var out any
		if resp.IsList() {
			out = resp.AsSlice(!flagOriginal)
		} else {
			out = resp.AsMap(!flagOriginal)
		}
		printed, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(printed))

		if resp.StatusCode() >= 400 {
			return fmt.Errorf("HTTP %d", resp.StatusCode())
		}
		return nil
	},
}

func init() {
	callCmd.Flags().StringArrayVarP(&flagQuery, "query", "q", nil, "query parameter, key=value (repeatable)")
	callCmd.Flags().StringVarP(&flagBody, "body", "d", "", "JSON request body, inline or @file")
	callCmd.Flags().BoolVar(&flagOriginal, "original-keys", false, "print original key casing instead of snake_case")
	rootCmd.AddCommand(callCmd)
}
