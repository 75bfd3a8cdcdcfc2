package app

import (
	"fmt"
	"math"
	"sort"

	"pdfchat/internal/model"
)

type ScoredChunk struct {
	Chunk    model.DocumentChunk
	Distance float64
}

// l2Distance returns the Euclidean distance between two vectors of the same
// dimensionality.
func l2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// nearestChunks returns up to k chunks ordered by ascending L2 distance to
// query. Ties keep the input order, which callers supply in insertion order.
func nearestChunks(chunks []model.DocumentChunk, query []float32, k int) ([]ScoredChunk, error) {
	if k <= 0 || len(chunks) == 0 {
		return nil, nil
	}

	scored := make([]ScoredChunk, len(chunks))
	for i := range chunks {
		dist, err := l2Distance(query, chunks[i].EmbeddingVector())
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunks[i].ID, err)
		}
		scored[i] = ScoredChunk{Chunk: chunks[i], Distance: dist}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}
