// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest runs the end-to-end pipeline: fetch candidate papers,
// load the reading corpus, rerank by relevance and prestige, and format
// the result.
package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/digest-engine/internal/rerank"
	"github.com/pdiddy/digest-engine/pkg/types"
)

// CandidateSource produces the papers to rank.
type CandidateSource interface {
	Fetch(ctx context.Context, w io.Writer) ([]types.Candidate, error)
}

// CorpusSource produces the reference corpus relevance is measured against.
type CorpusSource interface {
	Load(ctx context.Context, w io.Writer) ([]types.CorpusEntry, error)
}

// Pipeline wires the digest stages together.
type Pipeline struct {
	Candidates CandidateSource
	Corpus     CorpusSource
	Engine     *rerank.Engine
}

// Output holds the ranked digest.
type Output struct {
	Papers       []types.Candidate
	TotalFetched int
	CorpusSize   int
}

// Run executes the pipeline and returns the top papers. Candidate or
// corpus failures abort the run; prestige lookups degrade inside the
// reranker instead.
func (p *Pipeline) Run(ctx context.Context, opts rerank.Options, w io.Writer) (Output, error) {
	candidates, err := p.Candidates.Fetch(ctx, w)
	if err != nil {
		return Output{}, fmt.Errorf("fetching candidates: %w", err)
	}
	if len(candidates) == 0 {
		return Output{}, nil
	}

	entries, err := p.Corpus.Load(ctx, w)
	if err != nil {
		return Output{}, fmt.Errorf("loading corpus: %w", err)
	}

	ranked, err := p.Engine.Rerank(ctx, candidates, entries, opts, w)
	if err != nil {
		return Output{}, fmt.Errorf("reranking: %w", err)
	}

	out := Output{
		TotalFetched: len(candidates),
		CorpusSize:   len(entries),
	}
	if opts.MaxPapers > 0 && len(ranked) > opts.MaxPapers {
		ranked = ranked[:opts.MaxPapers]
	}
	out.Papers = ranked
	return out, nil
}

// FormatTable writes the digest as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-6s  %-6s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Score", "Rel", "Prest", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	for i, c := range out.Papers {
		title := c.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		prestige := (c.AuthorScore + c.InstitutionScore) / 2
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-6.2f  %-6.2f  %-6.1f  %s\n",
			i+1, title, formatAuthors(c.Authors), c.Score, c.RelevanceScore, prestige, c.ID)
	}

	fmt.Fprintf(w, "\n%d papers shown of %d fetched (corpus size %d)\n",
		len(out.Papers), out.TotalFetched, out.CorpusSize)
}

// FormatJSON writes the digest as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
