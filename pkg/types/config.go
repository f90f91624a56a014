// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "digest-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the arXiv candidate feed.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories lists the arXiv categories to pull candidates from
	// (e.g. "cs.LG", "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`

	// MaxResults is the maximum number of candidates fetched per category
	// (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// CorpusConfig holds settings for loading the reference reading corpus.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline"`

	// ZoteroUserID selects the Zotero library to read. When empty the
	// corpus is loaded from File instead.
	ZoteroUserID string `json:"zotero_user_id,omitempty" yaml:"zotero_user_id,omitempty"`

	// ZoteroAPIKey authenticates Zotero API requests.
	ZoteroAPIKey string `json:"zotero_api_key,omitempty" yaml:"zotero_api_key,omitempty"`

	// File is a local JSON corpus export used when no Zotero library is
	// configured.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// MaxItems caps the number of corpus entries loaded (default 500).
	MaxItems int `json:"max_items" yaml:"max_items"`
}

// EmbeddingConfig holds settings for the text-embedding service.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the embedding service endpoint (default "http://localhost:8080").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// AuthorConfig holds settings for the author prestige scorer.
type AuthorConfig struct {
	HTTPConfig `yaml:",inline"`

	// CachePath is the SQLite file holding persisted author scores
	// (default "author_scores.db").
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DefaultScore is returned for unknown or unresolvable authors (default 50).
	DefaultScore float64 `json:"default_score" yaml:"default_score"`

	// PrestigiousThreshold marks authors at or above this score as
	// prestigious (default 80).
	PrestigiousThreshold float64 `json:"prestigious_threshold" yaml:"prestigious_threshold"`

	// StalenessWindow is how long a cached score stays valid (default 30 days).
	StalenessWindow time.Duration `json:"staleness_window" yaml:"staleness_window"`

	// MinRequestInterval is the shared pacing gate between lookup requests
	// (default 100ms). The gate applies across all callers, not per name.
	MinRequestInterval time.Duration `json:"min_request_interval" yaml:"min_request_interval"`

	// MaxRetries is the number of retry attempts for transient lookup
	// failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// InstitutionConfig holds settings for the institution prestige scorer.
type InstitutionConfig struct {
	// ScoresFile is the YAML table mapping canonical institution names to
	// 0-100 scores (default "institution_scores.yaml"). A missing file is
	// not fatal: every institution then resolves to DefaultScore.
	ScoresFile string `json:"scores_file" yaml:"scores_file"`

	// CacheFile optionally persists resolved names between runs.
	CacheFile string `json:"cache_file,omitempty" yaml:"cache_file,omitempty"`

	// DefaultScore is returned for unknown institutions (default 50).
	DefaultScore float64 `json:"default_score" yaml:"default_score"`

	// PrestigiousThreshold marks institutions at or above this score as
	// prestigious (default 90).
	PrestigiousThreshold float64 `json:"prestigious_threshold" yaml:"prestigious_threshold"`
}

// RerankConfig holds settings for the reranking engine.
type RerankConfig struct {
	// UsePrestige enables the author and institution prestige boosts.
	UsePrestige bool `json:"use_prestige" yaml:"use_prestige"`

	// MaxPapers is the number of papers the digest ultimately presents.
	// The prestige processing window is sized from it (default 10).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// PrestigeWeight scales the prestige boost between 0 (ignored) and 1
	// (fully applied). Values outside [0,1] are clamped.
	PrestigeWeight float64 `json:"prestige_weight" yaml:"prestige_weight"`
}

// DigestConfig groups all stage configurations for the digest pipeline.
type DigestConfig struct {
	Feed        FeedConfig        `json:"feed" yaml:"feed"`
	Corpus      CorpusConfig      `json:"corpus" yaml:"corpus"`
	Embedding   EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	Author      AuthorConfig      `json:"author" yaml:"author"`
	Institution InstitutionConfig `json:"institution" yaml:"institution"`
	Rerank      RerankConfig      `json:"rerank" yaml:"rerank"`
}
