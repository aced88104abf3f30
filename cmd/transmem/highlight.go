// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transmem/internal/match"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight",
	Short: "Mark the words of a query inside a text",
	Long: `Highlight finds whole-word occurrences of each query word (three or more
characters, case-insensitive) in the text and prints the text with every match
wrapped in brackets. With --json it prints the span list instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		query, _ := cmd.Flags().GetString("query")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		spans := match.Highlight(text, query)
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(spans)
		}
		fmt.Println(match.FormatSpans(spans))
		return nil
	},
}

func init() {
	highlightCmd.Flags().String("text", "", "text to highlight")
	highlightCmd.Flags().String("query", "", "words to mark")
	highlightCmd.Flags().Bool("json", false, "output spans as JSON")
	highlightCmd.MarkFlagRequired("text")
	highlightCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(highlightCmd)
}
