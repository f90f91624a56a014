// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embeddings

import "math"

// Cosine returns the cosine similarity between two vectors, or 0 when
// either vector has zero magnitude or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineMatrix returns the pairwise similarity matrix between two vector
// sets: result[i][j] is the cosine similarity of a[i] and b[j].
func CosineMatrix(a, b [][]float32) [][]float64 {
	matrix := make([][]float64, len(a))
	for i := range a {
		row := make([]float64, len(b))
		for j := range b {
			row[j] = Cosine(a[i], b[j])
		}
		matrix[i] = row
	}
	return matrix
}
