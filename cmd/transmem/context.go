// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transmem/internal/match"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the excerpt of a text around a term",
	Long: `Context finds the first case-insensitive occurrence of the term and prints
the text around it, radius characters on each side. An ellipsis marks each end
where the text was cut.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		term, _ := cmd.Flags().GetString("term")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		radius := match.OptionsFromConfig(cfg.Match).ContextRadius
		if cmd.Flags().Changed("radius") {
			radius, _ = cmd.Flags().GetInt("radius")
		}

		excerpt, err := match.ExtractContext(text, term, radius)
		if err != nil {
			return err
		}
		if excerpt == "" {
			fmt.Fprintf(os.Stderr, "%q does not occur in the text\n", term)
			return nil
		}
		fmt.Println(excerpt)
		return nil
	},
}

func init() {
	contextCmd.Flags().String("text", "", "text to excerpt")
	contextCmd.Flags().String("term", "", "term to center the excerpt on")
	contextCmd.Flags().Int("radius", match.DefaultContextRadius, "characters kept on each side")
	contextCmd.MarkFlagRequired("text")
	contextCmd.MarkFlagRequired("term")

	rootCmd.AddCommand(contextCmd)
}
