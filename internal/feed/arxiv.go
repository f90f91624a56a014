// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed pulls recent arXiv submissions as digest candidates.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/digest-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// FetchRecent queries the arXiv API for the newest submissions in each
// configured category and returns them as candidates, deduplicated by
// arXiv ID and sorted newest first. A failing category is a warning, not
// an error, as long as at least one category succeeds.
func FetchRecent(ctx context.Context, client *http.Client, cfg types.FeedConfig, w io.Writer) ([]types.Candidate, error) {
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("no arXiv categories configured")
	}

	var all []types.Candidate
	failed := 0
	for _, category := range cfg.Categories {
		candidates, err := fetchCategory(ctx, client, category, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: category %s failed: %v\n", category, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "fetched %d candidates from %s\n", len(candidates), category)
		all = append(all, candidates...)
	}

	if failed == len(cfg.Categories) {
		return nil, fmt.Errorf("all %d arXiv categories failed", failed)
	}

	deduped := dedupByID(all)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Published.After(deduped[j].Published)
	})
	return deduped, nil
}

// fetchCategory pulls one category's newest submissions.
func fetchCategory(ctx context.Context, client *http.Client, category string, cfg types.FeedConfig) ([]types.Candidate, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	url := fmt.Sprintf("%s?search_query=cat:%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, category, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var candidates []types.Candidate
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		c := types.Candidate{
			ID:      arxivID,
			Title:   strings.TrimSpace(entry.Title),
			Summary: strings.TrimSpace(entry.Summary),
			URL:     "https://arxiv.org/abs/" + arxivID,
		}

		for _, a := range entry.Authors {
			c.Authors = append(c.Authors, strings.TrimSpace(a.Name))
			for _, aff := range a.Affiliations {
				if aff = strings.TrimSpace(aff); aff != "" {
					c.Affiliations = append(c.Affiliations, aff)
				}
			}
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			c.Published = t
		}

		candidates = append(candidates, c)
	}
	return candidates, nil
}

// dedupByID keeps the first occurrence of each arXiv ID. Cross-listed
// papers appear in several categories.
func dedupByID(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]bool, len(candidates))
	var out []types.Candidate
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// arXiv Atom feed XML structures. Author affiliations arrive in the
// arxiv XML namespace; matching on the local name is sufficient here.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name         string   `xml:"name"`
	Affiliations []string `xml:"affiliation"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
