// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transmem/internal/memory"
	"github.com/pdiddy/transmem/pkg/types"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the translation memory (add, import, export, stats)",
	Long: `Memory manages the local SQLite translation memory. Use subcommands to
add or remove entries, load YAML memory files from memory/import/, exchange
entries as TMX, and inspect usage statistics.`,
}

// openStore opens the store at the configured memory directory.
func openStore() (*memory.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return memory.NewStore(cfg.Memory)
}

// --- add subcommand ---

var memoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a translation",
	Long: `Add stores one source/target pair. Without --id a random ID is assigned;
with the ID of an existing entry the entry is replaced.`,
	RunE: runMemoryAdd,
}

func runMemoryAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	var e types.TranslationEntry
	e.ID, _ = flags.GetString("id")
	e.SourceText, _ = flags.GetString("source")
	e.TargetText, _ = flags.GetString("target")
	e.SourceLanguage, _ = flags.GetString("source-lang")
	e.TargetLanguage, _ = flags.GetString("target-lang")
	e.ProjectID, _ = flags.GetString("project")
	e.Provider, _ = flags.GetString("provider")
	e.Confidence, _ = flags.GetFloat64("confidence")
	e.Verified, _ = flags.GetBool("verified")
	e.Notes, _ = flags.GetString("notes")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := store.Add(context.Background(), e)
	if err != nil {
		return err
	}
	fmt.Println(ids[0])
	return nil
}

// --- get subcommand ---

var memoryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		}
		data, err := yaml.Marshal(&e)
		if err != nil {
			return fmt.Errorf("marshaling entry: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// --- delete subcommand ---

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a stored entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// --- use subcommand ---

var memoryUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Record that a stored translation was reused",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return store.RecordUsage(context.Background(), args[0], time.Now())
	},
}

// --- import subcommand ---

var memoryImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load YAML memory files from memory/import/",
	Long: `Import reads every *.yaml and *.yml memory file in memory/import/ and
stores its entries. Files unchanged since the last run are skipped; a changed
file replaces the entries it loaded before.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Ingest(context.Background(), os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d file(s) failed to import", summary.Failed)
		}
		return nil
	},
}

// --- export subcommand ---

var memoryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the memory to YAML or JSON",
	Long: `Export writes the memory (or the subset selected by the filter flags) to
memory/index/export.yaml or export.json. The YAML export is a memory file that
import can load again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(context.Background(), corpusFilter(cmd))
		case "json":
			path, err = store.ExportJSON(context.Background(), corpusFilter(cmd))
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

// --- stats subcommand ---

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background(), corpusFilter(cmd))
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Printf("Entries:             %d\n", st.TotalEntries)
		fmt.Printf("Verified:            %d\n", st.VerifiedEntries)
		fmt.Printf("Total uses:          %d\n", st.TotalUsage)
		fmt.Printf("Average confidence:  %.2f\n", st.AverageConfidence)
		printCounts("By provider", st.ByProvider)
		printCounts("By project", st.ByProject)
		return nil
	},
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
}

// --- tmx-import subcommand ---

var memoryTMXImportCmd = &cobra.Command{
	Use:   "tmx-import <file>",
	Short: "Import translation units from a TMX file",
	Long: `TMX-import reads a TMX 1.4 document and stores every translation unit that
has segments in both --source-lang and --target-lang. Units whose source text
is already stored for the pair (ignoring case) are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tgt, err := languagePair(cmd)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		added, err := store.ImportTMX(context.Background(), f, src, tgt)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d entries from %s\n", added, args[0])
		return nil
	},
}

// --- tmx-export subcommand ---

var memoryTMXExportCmd = &cobra.Command{
	Use:   "tmx-export [file]",
	Short: "Export a language pair as a TMX file",
	Long: `TMX-export writes the entries of --source-lang/--target-lang as a TMX 1.4
document to the given file, or to stdout when no file is named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tgt, err := languagePair(cmd)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			return store.WriteTMX(context.Background(), os.Stdout, src, tgt)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		if err := store.WriteTMX(context.Background(), f, src, tgt); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", args[0], err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", args[0])
		return nil
	},
}

func languagePair(cmd *cobra.Command) (string, string, error) {
	src, _ := cmd.Flags().GetString("source-lang")
	tgt, _ := cmd.Flags().GetString("target-lang")
	if strings.TrimSpace(src) == "" || strings.TrimSpace(tgt) == "" {
		return "", "", fmt.Errorf("--source-lang and --target-lang are required")
	}
	return src, tgt, nil
}

func init() {
	// Add flags.
	memoryAddCmd.Flags().String("id", "", "entry ID (default: random UUID)")
	memoryAddCmd.Flags().String("source", "", "source text")
	memoryAddCmd.Flags().String("target", "", "target text")
	memoryAddCmd.Flags().String("source-lang", "", "source language tag")
	memoryAddCmd.Flags().String("target-lang", "", "target language tag")
	memoryAddCmd.Flags().String("project", "", "project the entry belongs to")
	memoryAddCmd.Flags().String("provider", "manual", "where the translation came from")
	memoryAddCmd.Flags().Float64("confidence", 1, "confidence in [0,1]")
	memoryAddCmd.Flags().Bool("verified", false, "mark the translation as reviewed")
	memoryAddCmd.Flags().String("notes", "", "free-form notes")
	memoryAddCmd.MarkFlagRequired("source")
	memoryAddCmd.MarkFlagRequired("target")

	memoryGetCmd.Flags().Bool("json", false, "output the entry as JSON")

	// Filtered subcommands.
	memoryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	addFilterFlags(memoryExportCmd)
	addFilterFlags(memoryStatsCmd)
	memoryStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	for _, c := range []*cobra.Command{memoryTMXImportCmd, memoryTMXExportCmd} {
		c.Flags().String("source-lang", "", "source language tag")
		c.Flags().String("target-lang", "", "target language tag")
	}

	// Wire subcommands.
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memoryGetCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryUseCmd)
	memoryCmd.AddCommand(memoryImportCmd)
	memoryCmd.AddCommand(memoryExportCmd)
	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryTMXImportCmd)
	memoryCmd.AddCommand(memoryTMXExportCmd)

	rootCmd.AddCommand(memoryCmd)
}
