// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pdiddy/digest-engine/pkg/types"
)

// fileEntry is one record in a local corpus export.
type fileEntry struct {
	Abstract string `json:"abstract"`
	AddedAt  string `json:"added_at"`
}

// LoadFile reads a local JSON corpus export: an array of objects with
// "abstract" and RFC 3339 "added_at" fields. Entries without an abstract
// are skipped; entries with unparseable dates are skipped with a warning.
func LoadFile(path string, w io.Writer) ([]types.CorpusEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var raw []fileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}

	var entries []types.CorpusEntry
	for i, e := range raw {
		if e.Abstract == "" {
			continue
		}
		added, err := time.Parse(time.RFC3339, e.AddedAt)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping corpus entry %d: bad added_at %q\n", i, e.AddedAt)
			continue
		}
		entries = append(entries, types.CorpusEntry{Abstract: e.Abstract, AddedAt: added})
	}

	fmt.Fprintf(w, "loaded %d corpus entries from %s\n", len(entries), path)
	return entries, nil
}

// Load picks the corpus source from configuration: a Zotero library when a
// user ID is set, otherwise a local export file.
func Load(ctx context.Context, cfg types.CorpusConfig, w io.Writer) ([]types.CorpusEntry, error) {
	if cfg.ZoteroUserID != "" {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client := &ZoteroClient{
			Client: &http.Client{Timeout: timeout},
			UserID: cfg.ZoteroUserID,
			APIKey: cfg.ZoteroAPIKey,
		}
		return client.Fetch(ctx, cfg, w)
	}
	if cfg.File != "" {
		return LoadFile(cfg.File, w)
	}
	return nil, fmt.Errorf("no corpus source configured: set a Zotero user ID or a corpus file")
}
