// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the digest-engine pipeline.
package types

import "time"

// Candidate represents a paper under consideration for the digest.
// The feed stage fills the metadata fields; the reranking engine assigns
// the score fields in place and orders candidates by Score.
type Candidate struct {
	// ID is the canonical identifier from the source (e.g. arXiv ID "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract or summary text used for relevance scoring.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations lists author affiliations when the source provides them.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	// URL is the paper's landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Published is the submission or publication date.
	Published time.Time `json:"published" yaml:"published"`

	// RelevanceScore is the corpus-weighted similarity on a nominal 0-10
	// scale. The scale is soft: near-duplicate corpora can push it past 10.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// InstitutionScore is the resolved institution prestige (0-100),
	// or the neutral midpoint 50 when prestige was not resolved.
	InstitutionScore float64 `json:"institution_score" yaml:"institution_score"`

	// AuthorScore is the resolved author prestige (0-100), or 50 when
	// prestige was not resolved.
	AuthorScore float64 `json:"author_score" yaml:"author_score"`

	// Score is the final ranking key.
	Score float64 `json:"score" yaml:"score"`
}

// CorpusEntry is one prior-interest item from the reference reading corpus.
// Entries are immutable inputs: only the abstract and the added timestamp
// participate in relevance scoring.
type CorpusEntry struct {
	// Abstract is the entry's abstract text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// AddedAt is when the entry was added to the corpus. Newer entries
	// receive higher recency weight during reranking.
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// AuthorMetrics holds the bibliometric indicators returned by the author
// lookup service. Missing fields decode as zero.
type AuthorMetrics struct {
	HIndex        int `json:"h_index" yaml:"h_index"`
	CitationCount int `json:"citation_count" yaml:"citation_count"`
	PaperCount    int `json:"paper_count" yaml:"paper_count"`
}
