// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transmem/internal/match"
	"github.com/pdiddy/transmem/internal/memory"
)

var exactCmd = &cobra.Command{
	Use:   "exact [query]",
	Short: "List stored translations whose source equals the query",
	Long: `Exact lists entries whose source text equals the query ignoring case,
most used first. Use it to check for a ready translation before a fuzzy search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExact,
}

func runExact(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := memory.NewStore(cfg.Memory)
	if err != nil {
		return err
	}
	defer store.Close()

	corpus, err := store.Corpus(context.Background(), corpusFilter(cmd))
	if err != nil {
		return err
	}

	return printResults(cmd, match.ExactMatches(strings.Join(args, " "), corpus))
}

func init() {
	addFilterFlags(exactCmd)
	exactCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(exactCmd)
}
