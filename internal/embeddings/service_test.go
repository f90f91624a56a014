// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/digest-engine/pkg/types"
)

func testService(url string) *Service {
	cfg := types.EmbeddingConfig{BaseURL: url}
	cfg.Timeout = 5 * time.Second
	return NewService(cfg)
}

func TestEncodeRequestAndResponse(t *testing.T) {
	var captured embedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("path = %q, want /embed", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, `[[1.0,0.0],[0.0,1.0]]`)
	}))
	defer ts.Close()

	s := testService(ts.URL)
	vectors, err := s.Encode(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(captured.Inputs) != 2 || captured.Inputs[0] != "alpha" {
		t.Errorf("request inputs = %v, want [alpha beta]", captured.Inputs)
	}
	if !captured.Truncate {
		t.Error("truncate = false, want true")
	}
	if len(vectors) != 2 || vectors[0][0] != 1.0 || vectors[1][1] != 1.0 {
		t.Errorf("vectors = %v", vectors)
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	s := testService("http://unused.invalid")
	vectors, err := s.Encode(context.Background(), nil)
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	if vectors != nil {
		t.Errorf("vectors = %v, want nil", vectors)
	}
}

func TestEncodeErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s := testService(ts.URL)
	_, err := s.Encode(context.Background(), []string{"alpha"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 503") {
		t.Errorf("error = %q, want substring 'HTTP 503'", err)
	}
}

func TestEncodeMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer ts.Close()

	s := testService(ts.URL)
	_, err := s.Encode(context.Background(), []string{"alpha"})
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestEncodeVectorCountMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[[1.0,0.0]]`)
	}))
	defer ts.Close()

	s := testService(ts.URL)
	_, err := s.Encode(context.Background(), []string{"alpha", "beta"})
	if err == nil || !strings.Contains(err.Error(), "1 vectors for 2 texts") {
		t.Errorf("error = %v, want count mismatch", err)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"dimension mismatch", []float32{1}, []float32{1, 1}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineMatrixShape(t *testing.T) {
	a := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	b := [][]float32{{1, 0}, {0, 1}}

	m := CosineMatrix(a, b)
	if len(m) != 3 || len(m[0]) != 2 {
		t.Fatalf("matrix shape = %dx%d, want 3x2", len(m), len(m[0]))
	}
	if math.Abs(m[0][0]-1.0) > 1e-9 || math.Abs(m[0][1]) > 1e-9 {
		t.Errorf("row 0 = %v, want [1 0]", m[0])
	}
	d := 1 / math.Sqrt2
	if math.Abs(m[2][0]-d) > 1e-9 || math.Abs(m[2][1]-d) > 1e-9 {
		t.Errorf("row 2 = %v, want [%v %v]", m[2], d, d)
	}
}
