// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// tableEntry is one row of the static institution score table.
type tableEntry struct {
	Name  string
	Score float64
}

// loadTable reads a YAML mapping of institution name to score, preserving
// the file's entry order. Fuzzy matching resolves ties by table order, so
// the parse must not go through a Go map (map iteration order is random).
func loadTable(path string) ([]tableEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing institution scores: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("institution scores: expected a mapping at top level")
	}

	var entries []tableEntry
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		val := root.Content[i+1]

		score, err := strconv.ParseFloat(strings.TrimSpace(val.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("institution scores: %q has non-numeric score %q", key.Value, val.Value)
		}
		entries = append(entries, tableEntry{Name: key.Value, Score: score})
	}
	return entries, nil
}
