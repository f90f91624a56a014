// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package institution scores institution prestige from a static lookup
// table with normalization, fuzzy matching, and a resolution cache.
package institution

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/pdiddy/digest-engine/pkg/types"
)

// abbreviations expands common institution name shorthand. Applied as
// case-insensitive whole-word substitutions, in this order.
var abbreviations = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bUniv\b\.?`), "University"},
	{regexp.MustCompile(`(?i)\bColl\b\.?`), "College"},
	{regexp.MustCompile(`(?i)\bInst\b\.?`), "Institute"},
	{regexp.MustCompile(`(?i)\bTech\b\.?`), "Technology"},
	{regexp.MustCompile(`(?i)\bDept\b\.?`), "Department"},
}

// Scorer maps free-text institution strings to 0-100 prestige scores.
// Resolution never fails: inconclusive lookups return the default score.
// Safe for concurrent use.
type Scorer struct {
	defaultScore float64
	threshold    float64
	entries      []tableEntry
	exact        map[string]float64 // lowercased canonical name → score

	mu    sync.Mutex
	cache map[string]float64 // normalized query → resolved score
}

// NewScorer builds a scorer from the configured static score table. A
// missing table file is not fatal: a warning is written to w and every
// lookup falls back to the default score. If a cache file is configured
// it is loaded best-effort.
func NewScorer(cfg types.InstitutionConfig, w io.Writer) *Scorer {
	defaultScore := cfg.DefaultScore
	if defaultScore == 0 {
		defaultScore = 50
	}
	threshold := cfg.PrestigiousThreshold
	if threshold == 0 {
		threshold = 90
	}

	s := &Scorer{
		defaultScore: defaultScore,
		threshold:    threshold,
		exact:        make(map[string]float64),
		cache:        make(map[string]float64),
	}

	if cfg.ScoresFile != "" {
		entries, err := loadTable(cfg.ScoresFile)
		if err != nil {
			fmt.Fprintf(w, "warning: institution scores unavailable (%v), using default scores only\n", err)
		}
		s.entries = entries
		for _, e := range entries {
			s.exact[strings.ToLower(e.Name)] = e.Score
		}
	}

	if cfg.CacheFile != "" {
		if err := s.LoadCache(cfg.CacheFile); err != nil {
			fmt.Fprintf(w, "warning: institution cache not loaded: %v\n", err)
		}
	}

	return s
}

// Normalize prepares an institution string for lookup: trims whitespace,
// expands common abbreviations, and keeps only the last comma-separated
// segment (affiliations usually list the top-level institution last, as
// in "Department of CS, Stanford University").
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	for _, a := range abbreviations {
		name = a.re.ReplaceAllString(name, a.repl)
	}

	if idx := strings.LastIndex(name, ","); idx >= 0 {
		name = name[idx+1:]
	}

	return strings.TrimSpace(name)
}

// Score resolves an institution string to a 0-100 prestige score. The
// resolution order is cache, exact table match, fuzzy table match, then
// the default score. Every outcome is cached under the normalized name,
// including defaults, so repeated unknown lookups stay O(1).
func (s *Scorer) Score(name string) float64 {
	if strings.TrimSpace(name) == "" {
		return s.defaultScore
	}

	normalized := Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if score, ok := s.cache[normalized]; ok {
		return score
	}

	score := s.resolve(normalized)
	s.cache[normalized] = score
	return score
}

// resolve looks the normalized name up in the static table. Caller holds s.mu.
func (s *Scorer) resolve(normalized string) float64 {
	if score, ok := s.exact[strings.ToLower(normalized)]; ok {
		return score
	}
	if score, ok := s.fuzzyMatch(normalized); ok {
		return score
	}
	return s.defaultScore
}

// fuzzyMatch scans the table in file order for a containment match: a
// table entry matches when it is a case-insensitive substring of the
// query or vice versa, provided both strings are at least 3 characters
// (suppresses spurious short-token matches like "AI" inside an unrelated
// affiliation, while still letting short canonical names like "MIT"
// match longer affiliation strings). The first match wins; no
// specificity ranking is applied, so overlapping entries resolve by
// table order.
func (s *Scorer) fuzzyMatch(normalized string) (float64, bool) {
	queryLower := strings.ToLower(normalized)
	for _, e := range s.entries {
		nameLower := strings.ToLower(e.Name)
		if len(nameLower) < 3 || len(queryLower) < 3 {
			continue
		}
		if strings.Contains(queryLower, nameLower) || strings.Contains(nameLower, queryLower) {
			return e.Score, true
		}
	}
	return 0, false
}

// MaxScore returns the maximum score over a list of institution strings,
// or the default score for an empty list.
func (s *Scorer) MaxScore(names []string) float64 {
	if len(names) == 0 {
		return s.defaultScore
	}
	max := 0.0
	for i, name := range names {
		score := s.Score(name)
		if i == 0 || score > max {
			max = score
		}
	}
	return max
}

// IsPrestigious reports whether the institution scores at or above the
// prestigious threshold.
func (s *Scorer) IsPrestigious(name string) bool {
	return s.Score(name) >= s.threshold
}

// Prestigious filters a list down to the prestigious institutions.
func (s *Scorer) Prestigious(names []string) []string {
	var out []string
	for _, name := range names {
		if s.IsPrestigious(name) {
			out = append(out, name)
		}
	}
	return out
}

// SaveCache writes the resolution cache to a JSON file so resolved names
// carry over between runs.
func (s *Scorer) SaveCache(path string) error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding institution cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing institution cache: %w", err)
	}
	return nil
}

// LoadCache merges a previously saved resolution cache. A missing file is
// not an error.
func (s *Scorer) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading institution cache: %w", err)
	}

	var cache map[string]float64
	if err := json.Unmarshal(data, &cache); err != nil {
		return fmt.Errorf("parsing institution cache: %w", err)
	}

	s.mu.Lock()
	for k, v := range cache {
		s.cache[k] = v
	}
	s.mu.Unlock()
	return nil
}
