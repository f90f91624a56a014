// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embeddings encodes text through an HTTP embedding service and
// computes similarity between embedding vectors.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/digest-engine/pkg/types"
)

const defaultBaseURL = "http://localhost:8080"

// embedRequest is the request body for the text-embeddings-inference
// style /embed endpoint.
type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// Service encodes texts via a text-embeddings-inference compatible HTTP
// endpoint.
type Service struct {
	client  *http.Client
	baseURL string
}

// NewService builds an embedding client from configuration.
func NewService(cfg types.EmbeddingConfig) *Service {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Encode returns one embedding vector per input text, in input order.
// Unlike prestige lookups, embedding failure is an error: without
// embeddings there is no relevance signal to rank on.
func (s *Service) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding service returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("parsing embed response: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
