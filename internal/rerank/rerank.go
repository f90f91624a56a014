// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rerank orders digest candidates by corpus-weighted semantic
// relevance with optional author and institution prestige boosts.
package rerank

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/pdiddy/digest-engine/internal/embeddings"
	"github.com/pdiddy/digest-engine/pkg/types"
)

// neutralScore is the midpoint prestige value assigned when prestige was
// not resolved for a candidate, so downstream display stays consistent.
const neutralScore = 50.0

// minWindow is the smallest prestige processing window. Prestige lookups
// run only inside the window; candidates below it keep neutral scores.
const minWindow = 50

// Encoder turns texts into fixed-size embedding vectors. The digest
// pipeline satisfies it with the embeddings HTTP service; tests use a
// deterministic fake.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// AuthorScorer resolves the best author prestige score for a name list.
type AuthorScorer interface {
	MaxScore(ctx context.Context, names []string) float64
}

// InstitutionScorer resolves the best institution prestige score for an
// affiliation list.
type InstitutionScorer interface {
	MaxScore(names []string) float64
}

// Engine combines relevance and prestige into a final candidate order.
// Scorer instances are supplied by the orchestrator and shared across
// calls; the engine owns no caches of its own. A nil scorer degrades to
// the neutral score rather than failing — prestige is an enhancement,
// never a prerequisite for producing a ranking.
type Engine struct {
	Encoder      Encoder
	Authors      AuthorScorer
	Institutions InstitutionScorer
}

// Options holds the per-run reranking parameters.
type Options struct {
	// UsePrestige enables author and institution boosts.
	UsePrestige bool

	// MaxPapers is the eventual digest size; the prestige window is
	// max(MaxPapers*3, 50) candidates.
	MaxPapers int

	// PrestigeWeight scales the boost: 0 neutralizes it, 1 applies it
	// fully. Clamped to [0,1].
	PrestigeWeight float64
}

// Rerank assigns relevance, prestige, and final scores to the candidates
// in place and returns them sorted by final score, descending. The
// candidate slice is never grown or shrunk, only reordered. Progress and
// warnings go to w.
func (e *Engine) Rerank(ctx context.Context, candidates []types.Candidate, corpus []types.CorpusEntry, opts Options, w io.Writer) ([]types.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	if err := e.scoreRelevance(ctx, candidates, corpus, w); err != nil {
		return nil, err
	}

	if opts.UsePrestige {
		e.scorePrestige(ctx, candidates, opts, w)
	} else {
		for i := range candidates {
			candidates[i].Score = candidates[i].RelevanceScore
			candidates[i].InstitutionScore = neutralScore
			candidates[i].AuthorScore = neutralScore
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}

// scoreRelevance computes each candidate's corpus-weighted similarity on
// the soft 0-10 scale. An empty corpus is a defined degenerate case:
// every candidate scores zero relevance instead of failing on the
// normalization.
func (e *Engine) scoreRelevance(ctx context.Context, candidates []types.Candidate, corpus []types.CorpusEntry, w io.Writer) error {
	if len(corpus) == 0 {
		fmt.Fprintln(w, "warning: empty reference corpus, relevance is zero for all candidates")
		for i := range candidates {
			candidates[i].RelevanceScore = 0
		}
		return nil
	}

	sorted := make([]types.CorpusEntry, len(corpus))
	copy(sorted, corpus)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AddedAt.After(sorted[j].AddedAt)
	})

	weights := recencyWeights(len(sorted))

	abstracts := make([]string, len(sorted))
	for i, entry := range sorted {
		abstracts[i] = entry.Abstract
	}
	summaries := make([]string, len(candidates))
	for i, c := range candidates {
		summaries[i] = c.Summary
	}

	corpusVecs, err := e.Encoder.Encode(ctx, abstracts)
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}
	candidateVecs, err := e.Encoder.Encode(ctx, summaries)
	if err != nil {
		return fmt.Errorf("encoding candidates: %w", err)
	}

	sim := embeddings.CosineMatrix(candidateVecs, corpusVecs)
	for i := range candidates {
		var weighted float64
		for j, wj := range weights {
			weighted += sim[i][j] * wj
		}
		candidates[i].RelevanceScore = weighted * 10
	}
	return nil
}

// recencyWeights returns normalized per-entry weights 1/(1+log10(i+1))
// for rank i, newest first. Recent corpus entries dominate without older
// ones dropping out entirely.
func recencyWeights(n int) []float64 {
	weights := make([]float64, n)
	var sum float64
	for i := range weights {
		weights[i] = 1 / (1 + math.Log10(float64(i)+1))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// scorePrestige resolves prestige for the top relevance window and folds
// the boosts into the final score. Candidates outside the window keep
// their relevance as the final score with neutral prestige values; they
// are excluded from uplift, never penalized.
func (e *Engine) scorePrestige(ctx context.Context, candidates []types.Candidate, opts Options, w io.Writer) {
	weight := opts.PrestigeWeight
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	window := opts.MaxPapers * 3
	if window < minWindow {
		window = minWindow
	}
	if window > len(candidates) {
		window = len(candidates)
	}

	fmt.Fprintf(w, "resolving prestige for top %d of %d candidates\n", window, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		if i >= window {
			c.InstitutionScore = neutralScore
			c.AuthorScore = neutralScore
			c.Score = c.RelevanceScore
			continue
		}

		c.InstitutionScore = neutralScore
		if e.Institutions != nil {
			c.InstitutionScore = e.Institutions.MaxScore(c.Affiliations)
		}
		c.AuthorScore = neutralScore
		if e.Authors != nil {
			c.AuthorScore = e.Authors.MaxScore(ctx, c.Authors)
		}

		// Boosts range 0.5-1.5, centered at 1.0 for a score of 50.
		instBoost := 0.5 + c.InstitutionScore/100
		authBoost := 0.5 + c.AuthorScore/100
		combined := instBoost * authBoost

		weighted := 1 + weight*(combined-1)
		c.Score = c.RelevanceScore * math.Max(weighted, 0)
	}
}
