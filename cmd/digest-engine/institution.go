// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/digest-engine/internal/institution"
)

var institutionCmd = &cobra.Command{
	Use:   "institution [name ...]",
	Short: "Look up institution prestige scores",
	Long: `Institution normalizes each name (abbreviation expansion, affiliation
trimming) and resolves it against the configured score table, falling back
to fuzzy containment matching and then the default score.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstitution,
}

type institutionResult struct {
	Name        string  `json:"name"`
	Normalized  string  `json:"normalized"`
	Score       float64 `json:"score"`
	Prestigious bool    `json:"prestigious"`
}

func runInstitution(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	scorer := institution.NewScorer(cfg.Institution, os.Stderr)

	results := make([]institutionResult, 0, len(args))
	for _, name := range args {
		score := scorer.Score(name)
		results = append(results, institutionResult{
			Name:        name,
			Normalized:  institution.Normalize(name),
			Score:       score,
			Prestigious: scorer.IsPrestigious(name),
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
		fmt.Fprintf(os.Stdout, "%-40s  %-40s  %6.2f%s\n", r.Name, r.Normalized, r.Score, marker)
	}
	return nil
}

func init() {
	institutionCmd.Flags().Bool("json", false, "output scores as JSON")

	rootCmd.AddCommand(institutionCmd)
}
