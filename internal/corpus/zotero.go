// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the reference reading corpus that relevance is
// measured against, from a Zotero library or a local export file.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/digest-engine/pkg/types"
)

// zoteroAPIBase is the Zotero API root. Declared as a var so tests can
// substitute an httptest server.
var zoteroAPIBase = "https://api.zotero.org"

// pageSize is the Zotero API maximum per-request item count.
const pageSize = 100

// ZoteroClient reads items from a user's Zotero library.
type ZoteroClient struct {
	Client *http.Client
	UserID string
	APIKey string
}

// Fetch pages through the library's top-level items and returns corpus
// entries. Items without an abstract are skipped (there is nothing to
// embed); items with unparseable added dates are skipped with a warning.
func (z *ZoteroClient) Fetch(ctx context.Context, cfg types.CorpusConfig, w io.Writer) ([]types.CorpusEntry, error) {
	if z.UserID == "" {
		return nil, fmt.Errorf("no Zotero user ID configured")
	}

	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 500
	}

	var entries []types.CorpusEntry
	skipped := 0
	for start := 0; len(entries) < maxItems; start += pageSize {
		items, err := z.fetchPage(ctx, cfg, start)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if len(entries) >= maxItems {
				break
			}
			if item.Data.AbstractNote == "" {
				skipped++
				continue
			}
			added, err := time.Parse(time.RFC3339, item.Data.DateAdded)
			if err != nil {
				fmt.Fprintf(w, "warning: skipping Zotero item %s: bad dateAdded %q\n", item.Key, item.Data.DateAdded)
				continue
			}
			entries = append(entries, types.CorpusEntry{
				Abstract: item.Data.AbstractNote,
				AddedAt:  added,
			})
		}

		if len(items) < pageSize {
			break
		}
	}

	fmt.Fprintf(w, "loaded %d corpus entries from Zotero (%d without abstracts skipped)\n", len(entries), skipped)
	return entries, nil
}

func (z *ZoteroClient) fetchPage(ctx context.Context, cfg types.CorpusConfig, start int) ([]zoteroItem, error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {fmt.Sprintf("%d", pageSize)},
		"start":  {fmt.Sprintf("%d", start)},
	}
	reqURL := fmt.Sprintf("%s/users/%s/items/top?%s", zoteroAPIBase, z.UserID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if z.APIKey != "" {
		req.Header.Set("Zotero-API-Key", z.APIKey)
	}

	resp, err := z.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Zotero API returned HTTP %d", resp.StatusCode)
	}

	var items []zoteroItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing Zotero response: %w", err)
	}
	return items, nil
}

// Zotero API JSON structures.
type zoteroItem struct {
	Key  string     `json:"key"`
	Data zoteroData `json:"data"`
}

type zoteroData struct {
	AbstractNote string `json:"abstractNote"`
	DateAdded    string `json:"dateAdded"`
}
