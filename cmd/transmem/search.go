// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transmem/internal/match"
	"github.com/pdiddy/transmem/internal/memory"
	"github.com/pdiddy/transmem/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find stored translations similar to a source text",
	Long: `Search scores every entry of the selected language pair against the query
and prints those at or above the threshold, best first. Exact matches (equal
ignoring case) always score 1.0 and rank ahead of fuzzy ones.

Use --use with a result rank to record that the translation was reused; this
raises its usage count, which breaks ties between equally similar entries.

Use --save to write the query and results to a YAML file, and --load to print
a saved search again without opening the memory.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		rf, err := match.ReadResultFile(loadPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search: %q (%s)\n", rf.Query, rf.Summary.Timestamp.Format(time.RFC3339))
		return printResults(cmd, rf.Results)
	}
	if len(args) == 0 {
		return fmt.Errorf("query required: provide a search query or --load")
	}

	query := strings.Join(args, " ")
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := searchOptions(cmd, cfg.Match)
	workers := cfg.Match.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	store, err := memory.NewStore(cfg.Memory)
	if err != nil {
		return err
	}
	defer store.Close()

	corpus, err := store.Corpus(ctx, corpusFilter(cmd))
	if err != nil {
		return err
	}

	start := time.Now()
	var results []types.ScoredEntry
	if workers > 1 {
		results, err = match.SearchSharded(ctx, query, corpus, opts, workers)
	} else {
		results, err = match.Search(query, corpus, opts)
	}
	if err != nil {
		return err
	}
	slog.Debug("search finished", "corpus", len(corpus), "results", len(results),
		"workers", workers, "elapsed", time.Since(start))

	if err := printResults(cmd, results); err != nil {
		return err
	}
	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := match.WriteResultFile(savePath, query, opts, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search to %s\n", savePath)
	}

	rank, _ := cmd.Flags().GetInt("use")
	if rank == 0 {
		return nil
	}
	if rank < 0 || rank > len(results) {
		return fmt.Errorf("--use %d: no result with that rank", rank)
	}
	chosen := results[rank-1]
	if err := store.RecordUsage(ctx, chosen.ID, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Recorded use of %s\n", chosen.ID)
	return nil
}

// searchOptions starts from the configured match settings and applies the
// flags the user set explicitly.
func searchOptions(cmd *cobra.Command, cfg types.MatchConfig) match.Options {
	opts := match.OptionsFromConfig(cfg)
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		opts.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("max-results") {
		opts.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("radius") {
		opts.ContextRadius, _ = flags.GetInt("radius")
	}
	opts.IncludeContext, _ = flags.GetBool("context")
	opts.PreferRecent, _ = flags.GetBool("prefer-recent")
	opts.ProjectID, _ = flags.GetString("project")
	return opts
}

func printResults(cmd *cobra.Command, results []types.ScoredEntry) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return match.FormatJSON(results, os.Stdout)
	}
	match.FormatTable(results, os.Stdout)
	return nil
}

// --- shared helpers ---

func corpusFilter(cmd *cobra.Command) memory.CorpusFilter {
	src, _ := cmd.Flags().GetString("source-lang")
	tgt, _ := cmd.Flags().GetString("target-lang")
	project, _ := cmd.Flags().GetString("project")
	return memory.CorpusFilter{SourceLanguage: src, TargetLanguage: tgt, ProjectID: project}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("source-lang", "", "source language tag, e.g. en")
	cmd.Flags().String("target-lang", "", "target language tag, e.g. it")
	cmd.Flags().String("project", "", "restrict to entries of this project")
}

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().Float64("threshold", match.DefaultThreshold, "minimum similarity in [0,1]")
	searchCmd.Flags().Int("max-results", match.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().Bool("context", false, "show an excerpt of each source around the query")
	searchCmd.Flags().Int("radius", match.DefaultContextRadius, "characters kept on each side in excerpts")
	searchCmd.Flags().Bool("prefer-recent", false, "break ties by last update instead of usage count")
	searchCmd.Flags().Int("workers", 1, "goroutines scoring the corpus in parallel")
	searchCmd.Flags().Int("use", 0, "record reuse of the result with this rank (1-based)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "print a search saved with --save instead of searching")

	rootCmd.AddCommand(searchCmd)
}
