// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the transmem CLI: fuzzy lookup,
// highlighting, and maintenance of a translation memory.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/transmem/internal/match"
	"github.com/pdiddy/transmem/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the transmem CLI.
var rootCmd = &cobra.Command{
	Use:   "transmem",
	Short: "Translation memory with fuzzy matching",
	Long: `transmem stores previously translated segments and finds the ones that
resemble a new source text. Matches are ranked by a blend of character edit
similarity and word overlap; exact matches always rank first.

Entries live in a local SQLite database under memory/index/. YAML memory files
dropped in memory/import/ are loaded with "transmem memory import", and TMX
files can be imported or exported for exchange with CAT tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./transmem.yaml or ~/.config/transmem/transmem.yaml)")
	rootCmd.PersistentFlags().String("memory-dir", "memory", "base directory for the memory (contains import/, index/)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")

	viper.BindPFlag("memory.dir", rootCmd.PersistentFlags().Lookup("memory-dir"))

	viper.SetDefault("match.threshold", match.DefaultThreshold)
	viper.SetDefault("match.max_results", match.DefaultMaxResults)
	viper.SetDefault("match.context_radius", match.DefaultContextRadius)
	viper.SetDefault("match.edit_weight", match.DefaultWeights.Edit)
	viper.SetDefault("match.token_weight", match.DefaultWeights.Token)
	viper.SetDefault("match.workers", 1)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("transmem")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "transmem"))
		}
	}

	viper.SetEnvPrefix("TRANSMEM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged file, environment, and flag settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	slog.Debug("configuration loaded", "file", viper.ConfigFileUsed(),
		"threshold", cfg.Match.Threshold, "memory_dir", cfg.Memory.Dir)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
