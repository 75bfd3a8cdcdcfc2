package app

import (
	"strings"
	"testing"
)

func TestChunkRecordsIndexesAreContiguous(t *testing.T) {
	chunks := []string{"alpha", "beta", "gamma"}
	embeddings := [][]float32{{1, 0}, {0, 1}, {1, 1}}

	records := chunkRecords("report.pdf", chunks, embeddings)
	if len(records) != len(chunks) {
		t.Fatalf("expected %d records, got %d", len(chunks), len(records))
	}
	for i, r := range records {
		if r.ChunkIndex != i {
			t.Errorf("record %d has chunk index %d", i, r.ChunkIndex)
		}
		if r.Content != chunks[i] {
			t.Errorf("record %d content %q, want %q", i, r.Content, chunks[i])
		}
		if r.DocumentName != "report.pdf" {
			t.Errorf("record %d document name %q", i, r.DocumentName)
		}
		if got := r.EmbeddingVector(); len(got) != 2 {
			t.Errorf("record %d embedding did not round-trip, got %v", i, got)
		}
	}
}

func TestBuildPromptContainsContextAndQuestion(t *testing.T) {
	contents := []string{"premiums rose in 2019", "claims fell in 2020"}
	question := "What happened to premiums?"

	system, user := buildPrompt(contents, question)

	if !strings.Contains(system, refusalSentence) {
		t.Error("system prompt missing the refusal sentence")
	}
	for _, c := range contents {
		if !strings.Contains(user, c) {
			t.Errorf("user prompt missing context %q", c)
		}
	}
	if !strings.Contains(user, question) {
		t.Error("user prompt missing the verbatim question")
	}
}

func TestBuildPromptPreservesDistanceOrder(t *testing.T) {
	contents := []string{"nearest", "second", "third"}
	_, user := buildPrompt(contents, "q")

	last := -1
	for _, c := range contents {
		idx := strings.Index(user, c)
		if idx < 0 {
			t.Fatalf("context %q missing", c)
		}
		if idx < last {
			t.Errorf("context %q out of distance order", c)
		}
		last = idx
	}
}
