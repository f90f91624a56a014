// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/digest-engine/internal/author"
)

var authorCmd = &cobra.Command{
	Use:   "author [name ...]",
	Short: "Look up author prestige scores",
	Long: `Author resolves each name against Semantic Scholar and prints its
prestige score (0-100, from h-index, citations, and paper count). Unknown
authors receive the configured default score. Results are cached on disk
and refreshed after the staleness window.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAuthor,
}

type authorResult struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Prestigious bool    `json:"prestigious"`
}

func runAuthor(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	w := os.Stderr

	scorer := author.NewScorer(cfg.Author, w)
	defer func() {
		if err := scorer.Close(); err != nil {
			fmt.Fprintf(w, "warning: saving author cache: %v\n", err)
		}
	}()

	results := make([]authorResult, 0, len(args))
	for _, name := range args {
		score := scorer.Score(cmd.Context(), name)
		results = append(results, authorResult{
			Name:        name,
			Score:       score,
			Prestigious: scorer.IsPrestigious(cmd.Context(), name),
		})
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		marker := ""
		if r.Prestigious {
			marker = "  *"
		}
		fmt.Fprintf(os.Stdout, "%-40s  %6.2f%s\n", r.Name, r.Score, marker)
	}
	return nil
}

func init() {
	authorCmd.Flags().Bool("json", false, "output scores as JSON")

	rootCmd.AddCommand(authorCmd)
}
