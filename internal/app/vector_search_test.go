package app

import (
	"math"
	"testing"

	"pdfchat/internal/model"
)

func chunkWithEmbedding(id uint, content string, vec []float32) model.DocumentChunk {
	c := model.DocumentChunk{ID: id, Content: content}
	c.SetEmbedding(vec)
	return c
}

func TestL2Distance(t *testing.T) {
	d, err := l2Distance([]float32{0, 0}, []float32{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestL2DistanceDimensionMismatch(t *testing.T) {
	if _, err := l2Distance([]float32{1, 2}, []float32{1, 2, 3}); err == nil {
		t.Error("expected error on dimension mismatch")
	}
}

func TestNearestChunksIdentity(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithEmbedding(1, "a", []float32{1, 0, 0}),
		chunkWithEmbedding(2, "b", []float32{0, 1, 0}),
		chunkWithEmbedding(3, "c", []float32{0, 0, 1}),
	}

	for _, c := range chunks {
		got, err := nearestChunks(chunks, c.EmbeddingVector(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 result, got %d", len(got))
		}
		if got[0].Chunk.ID != c.ID {
			t.Errorf("query with chunk %d's own embedding returned chunk %d", c.ID, got[0].Chunk.ID)
		}
		if got[0].Distance != 0 {
			t.Errorf("expected distance 0 for identity query, got %f", got[0].Distance)
		}
	}
}

func TestNearestChunksOrderedAscending(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithEmbedding(1, "far", []float32{10, 0}),
		chunkWithEmbedding(2, "near", []float32{1, 0}),
		chunkWithEmbedding(3, "mid", []float32{5, 0}),
	}

	got, err := nearestChunks(chunks, []float32{0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("results not in ascending distance order at %d", i)
		}
	}
	if got[0].Chunk.ID != 2 || got[1].Chunk.ID != 3 || got[2].Chunk.ID != 1 {
		t.Errorf("unexpected order: %d, %d, %d", got[0].Chunk.ID, got[1].Chunk.ID, got[2].Chunk.ID)
	}
}

func TestNearestChunksTiesKeepInsertionOrder(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithEmbedding(10, "first", []float32{1, 0}),
		chunkWithEmbedding(11, "second", []float32{0, 1}),
		chunkWithEmbedding(12, "third", []float32{-1, 0}),
	}

	got, err := nearestChunks(chunks, []float32{0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, wantID := range []uint{10, 11, 12} {
		if got[i].Chunk.ID != wantID {
			t.Errorf("tie at position %d broken: got chunk %d, want %d", i, got[i].Chunk.ID, wantID)
		}
	}
}

func TestNearestChunksLimitsToK(t *testing.T) {
	var chunks []model.DocumentChunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunkWithEmbedding(uint(i+1), "x", []float32{float32(i), 0}))
	}

	got, err := nearestChunks(chunks, []float32{0, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 results, got %d", len(got))
	}

	got, err = nearestChunks(chunks, []float32{0, 0}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(chunks) {
		t.Errorf("expected %d results for oversized k, got %d", len(chunks), len(got))
	}
}

func TestNearestChunksEmptyStore(t *testing.T) {
	got, err := nearestChunks(nil, []float32{1, 2}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results for empty store, got %d", len(got))
	}
}

func TestNearestChunksRejectsMixedDimensions(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithEmbedding(1, "ok", []float32{1, 0}),
		chunkWithEmbedding(2, "bad", []float32{1, 0, 0}),
	}
	if _, err := nearestChunks(chunks, []float32{0, 0}, 2); err == nil {
		t.Error("expected error for store with mixed dimensions")
	}
}
