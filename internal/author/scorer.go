// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package author scores author prestige from bibliometric indicators
// (h-index, citation count, paper count) looked up through the Semantic
// Scholar API, with a rate-limited client and a persistent score cache.
package author

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/digest-engine/internal/httputil"
	"github.com/pdiddy/digest-engine/pkg/types"
)

// authorSearchBase is the Semantic Scholar author search endpoint.
// Declared as a var so tests can substitute an httptest server.
var authorSearchBase = "https://api.semanticscholar.org/graph/v1/author/search"

// CooldownDelay is the pause after a lookup still rate-limited once
// retries are exhausted. Tests override this to avoid real sleeps.
var CooldownDelay = 5 * time.Second

const authorFields = "authorId,name,hIndex,citationCount,paperCount"

const (
	defaultScore         = 50.0
	defaultThreshold     = 80.0
	defaultStaleness     = 30 * 24 * time.Hour
	defaultMinInterval   = 100 * time.Millisecond
	defaultLookupTimeout = 10 * time.Second
)

// Scorer maps author names to 0-100 prestige scores. Lookup failures of
// any kind degrade to the default score; nothing propagates to callers.
// Safe for concurrent use: the cache is mutex-guarded and the pacing
// gate is a shared token bucket observed by every lookup.
type Scorer struct {
	client    *http.Client
	apiKey    string
	userAgent string

	defaultScore float64
	threshold    float64
	staleness    time.Duration
	maxRetries   int

	limiter *rate.Limiter
	now     func() time.Time
	w       io.Writer

	mu    sync.Mutex
	cache map[string]cacheEntry
	store *cacheStore
}

// NewScorer builds an author scorer from configuration. The persistent
// cache at cfg.CachePath is loaded best-effort: a missing or unreadable
// database produces a warning on w and an empty cache, never an error.
func NewScorer(cfg types.AuthorConfig, w io.Writer) *Scorer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	interval := cfg.MinRequestInterval
	if interval <= 0 {
		interval = defaultMinInterval
	}

	s := &Scorer{
		client:       &http.Client{Timeout: timeout},
		apiKey:       cfg.APIKey,
		userAgent:    cfg.UserAgent,
		defaultScore: cfg.DefaultScore,
		threshold:    cfg.PrestigiousThreshold,
		staleness:    cfg.StalenessWindow,
		maxRetries:   cfg.MaxRetries,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		now:          time.Now,
		w:            w,
		cache:        make(map[string]cacheEntry),
	}
	if s.defaultScore == 0 {
		s.defaultScore = defaultScore
	}
	if s.threshold == 0 {
		s.threshold = defaultThreshold
	}
	if s.staleness <= 0 {
		s.staleness = defaultStaleness
	}

	if cfg.CachePath != "" {
		store, err := openCacheStore(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(w, "warning: author cache unavailable: %v\n", err)
		} else if entries, err := store.loadAll(); err != nil {
			fmt.Fprintf(w, "warning: author cache not loaded: %v\n", err)
			s.store = store
		} else {
			s.cache = entries
			s.store = store
		}
	}

	return s
}

// Close flushes the in-memory cache to the persistent store and releases
// it. Safe to call when no store is configured.
func (s *Scorer) Close() error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	err := s.store.flush(s.cache)
	s.mu.Unlock()
	if closeErr := s.store.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Score returns the prestige score for an author name. Cached scores
// younger than the staleness window are returned immediately; stale
// entries are treated as absent and re-resolved. Unresolvable authors
// score the default and are cached as unknown so repeated lookups stay
// off the network.
func (s *Scorer) Score(ctx context.Context, name string) float64 {
	if strings.TrimSpace(name) == "" {
		return s.defaultScore
	}

	s.mu.Lock()
	if entry, ok := s.cache[name]; ok && s.now().Sub(entry.CachedAt) < s.staleness {
		s.mu.Unlock()
		return entry.Score
	}
	s.mu.Unlock()

	metrics, found := s.lookup(ctx, name)

	entry := cacheEntry{Score: s.defaultScore, CachedAt: s.now()}
	if found {
		entry.Score = computeScore(metrics)
		entry.Metrics = &metrics
	}

	s.mu.Lock()
	s.cache[name] = entry
	s.mu.Unlock()

	return entry.Score
}

// MaxScore returns the maximum score over an author list, or the default
// for an empty list. Lists longer than three authors are cost-bounded:
// only the first and last author are scored.
func (s *Scorer) MaxScore(ctx context.Context, names []string) float64 {
	if len(names) == 0 {
		return s.defaultScore
	}

	check := names
	if len(names) > 3 {
		check = []string{names[0], names[len(names)-1]}
	}

	max := 0.0
	for i, name := range check {
		score := s.Score(ctx, name)
		if i == 0 || score > max {
			max = score
		}
	}
	return max
}

// IsPrestigious reports whether the author scores at or above the
// prestigious threshold.
func (s *Scorer) IsPrestigious(ctx context.Context, name string) bool {
	return s.Score(ctx, name) >= s.threshold
}

// PrestigiousAuthors filters an author list down to the prestigious ones.
func (s *Scorer) PrestigiousAuthors(ctx context.Context, names []string) []string {
	var out []string
	for _, name := range names {
		if s.IsPrestigious(ctx, name) {
			out = append(out, name)
		}
	}
	return out
}

// lookup searches Semantic Scholar for an author and returns the top
// match's metrics. The ok result is false when the author could not be
// resolved for any reason: rate limiting past retries, transport errors,
// malformed responses, or an empty result list.
func (s *Scorer) lookup(ctx context.Context, name string) (types.AuthorMetrics, bool) {
	if err := s.limiter.Wait(ctx); err != nil {
		return types.AuthorMetrics{}, false
	}

	params := url.Values{
		"query":  {name},
		"limit":  {"1"},
		"fields": {authorFields},
	}
	reqURL := authorSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.AuthorMetrics{}, false
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.maxRetries)
	if err != nil {
		fmt.Fprintf(s.w, "warning: author lookup failed for %q: %v\n", name, err)
		return types.AuthorMetrics{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Still rate-limited after retries: pause before giving up so the
		// next lookup does not run straight into the same limit.
		fmt.Fprintf(s.w, "warning: author lookup rate-limited, cooling down %v\n", CooldownDelay)
		select {
		case <-ctx.Done():
		case <-time.After(CooldownDelay):
		}
		return types.AuthorMetrics{}, false
	}
	if resp.StatusCode != http.StatusOK {
		return types.AuthorMetrics{}, false
	}

	var sr authorSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return types.AuthorMetrics{}, false
	}
	if len(sr.Data) == 0 {
		return types.AuthorMetrics{}, false
	}

	top := sr.Data[0]
	return types.AuthorMetrics{
		HIndex:        top.HIndex,
		CitationCount: top.CitationCount,
		PaperCount:    top.PaperCount,
	}, true
}

// computeScore combines bibliometric indicators into a 0-100 score:
// h-index saturates at 50, citations saturate around 100k on a log
// scale, paper count saturates around 1000.
func computeScore(m types.AuthorMetrics) float64 {
	hScore := math.Min(float64(m.HIndex)/50*100, 100)
	if hScore < 0 {
		hScore = 0
	}

	var cScore float64
	if m.CitationCount > 0 {
		cScore = math.Min(math.Log10(float64(m.CitationCount))/5*100, 100)
	}

	var pScore float64
	if m.PaperCount > 0 {
		pScore = math.Min(math.Log10(float64(m.PaperCount))/3*100, 100)
	}

	return 0.5*hScore + 0.3*cScore + 0.2*pScore
}

// Semantic Scholar author search JSON structures.
type authorSearchResponse struct {
	Total int            `json:"total"`
	Data  []authorRecord `json:"data"`
}

type authorRecord struct {
	AuthorID      string `json:"authorId"`
	Name          string `json:"name"`
	HIndex        int    `json:"hIndex"`
	CitationCount int    `json:"citationCount"`
	PaperCount    int    `json:"paperCount"`
}
