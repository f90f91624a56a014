// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/digest-engine/internal/author"
	"github.com/pdiddy/digest-engine/internal/corpus"
	"github.com/pdiddy/digest-engine/internal/digest"
	"github.com/pdiddy/digest-engine/internal/embeddings"
	"github.com/pdiddy/digest-engine/internal/feed"
	"github.com/pdiddy/digest-engine/internal/institution"
	"github.com/pdiddy/digest-engine/internal/rerank"
	"github.com/pdiddy/digest-engine/pkg/types"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build a ranked digest of recent arXiv papers",
	Long: `Digest fetches recent papers from the configured arXiv categories, loads
the reading corpus (Zotero library or local export), ranks candidates by
embedding similarity to the corpus with recency weighting, and applies
author and institution prestige boosts to the top window.`,
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyDigestFlags(cmd, &cfg)

	ctx := cmd.Context()
	w := os.Stderr

	feedClient := &http.Client{Timeout: cfg.Feed.Timeout}

	authorScorer := author.NewScorer(cfg.Author, w)
	defer func() {
		if err := authorScorer.Close(); err != nil {
			fmt.Fprintf(w, "warning: saving author cache: %v\n", err)
		}
	}()

	institutionScorer := institution.NewScorer(cfg.Institution, w)
	defer func() {
		if cfg.Institution.CacheFile != "" {
			if err := institutionScorer.SaveCache(cfg.Institution.CacheFile); err != nil {
				fmt.Fprintf(w, "warning: saving institution cache: %v\n", err)
			}
		}
	}()

	pipeline := &digest.Pipeline{
		Candidates: feedSource{client: feedClient, cfg: cfg.Feed},
		Corpus:     corpusSource{cfg: cfg.Corpus},
		Engine: &rerank.Engine{
			Encoder:      embeddings.NewService(cfg.Embedding),
			Authors:      authorScorer,
			Institutions: institutionScorer,
		},
	}

	opts := rerank.Options{
		UsePrestige:    cfg.Rerank.UsePrestige,
		MaxPapers:      cfg.Rerank.MaxPapers,
		PrestigeWeight: cfg.Rerank.PrestigeWeight,
	}

	out, err := pipeline.Run(ctx, opts, w)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return digest.FormatJSON(out, os.Stdout)
	}
	digest.FormatTable(out, os.Stdout)
	return nil
}

func applyDigestFlags(cmd *cobra.Command, cfg *types.DigestConfig) {
	if cmd.Flags().Changed("categories") {
		cats, _ := cmd.Flags().GetStringSlice("categories")
		cfg.Feed.Categories = cats
	}
	if cmd.Flags().Changed("max-papers") {
		cfg.Rerank.MaxPapers, _ = cmd.Flags().GetInt("max-papers")
	}
	if cmd.Flags().Changed("prestige") {
		cfg.Rerank.UsePrestige, _ = cmd.Flags().GetBool("prestige")
	}
	if cmd.Flags().Changed("prestige-weight") {
		cfg.Rerank.PrestigeWeight, _ = cmd.Flags().GetFloat64("prestige-weight")
	}
	if cmd.Flags().Changed("corpus-file") {
		cfg.Corpus.File, _ = cmd.Flags().GetString("corpus-file")
		cfg.Corpus.ZoteroUserID = ""
	}
}

// feedSource adapts the arXiv feed to the pipeline's candidate source.
type feedSource struct {
	client *http.Client
	cfg    types.FeedConfig
}

func (f feedSource) Fetch(ctx context.Context, w io.Writer) ([]types.Candidate, error) {
	return feed.FetchRecent(ctx, f.client, f.cfg, w)
}

// corpusSource adapts the corpus loader to the pipeline's corpus source.
type corpusSource struct {
	cfg types.CorpusConfig
}

func (c corpusSource) Load(ctx context.Context, w io.Writer) ([]types.CorpusEntry, error) {
	return corpus.Load(ctx, c.cfg, w)
}

func init() {
	digestCmd.Flags().StringSlice("categories", nil, "arXiv categories to fetch (e.g. cs.LG,cs.CL)")
	digestCmd.Flags().Int("max-papers", 10, "number of papers in the digest")
	digestCmd.Flags().Bool("prestige", true, "apply author and institution prestige boosts")
	digestCmd.Flags().Float64("prestige-weight", 0.3, "prestige boost weight between 0 and 1")
	digestCmd.Flags().String("corpus-file", "", "local JSON corpus export (overrides Zotero)")
	digestCmd.Flags().Bool("json", false, "output the digest as JSON")

	rootCmd.AddCommand(digestCmd)
}
