package textsplit

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyInput(t *testing.T) {
	s := New(100, 10)
	if got := s.Split(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := s.Split("   \n\n\t  "); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	s := New(100, 10)
	chunks := s.Split("a short paragraph")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "a short paragraph" {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	para1 := strings.Repeat("alpha ", 10)
	para2 := strings.Repeat("beta ", 10)
	text := strings.TrimSpace(para1) + "\n\n" + strings.TrimSpace(para2)

	s := New(60, 0)
	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if strings.Contains(chunks[0], "beta") {
		t.Errorf("first chunk crossed paragraph boundary: %q", chunks[0])
	}
	if strings.Contains(chunks[1], "alpha") {
		t.Errorf("second chunk crossed paragraph boundary: %q", chunks[1])
	}
}

func TestSplitNoEmptyChunks(t *testing.T) {
	text := "one\n\n\n\ntwo\n\n   \n\nthree"
	s := New(4, 0)
	for i, c := range s.Split(text) {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("word ")
	}

	size := 50
	s := New(size, 10)
	chunks := s.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > size {
			t.Errorf("chunk %d has %d runes, exceeds size %d", i, n, size)
		}
	}
}

func TestSplitChunkSizeHoldsWithCarriedOverlap(t *testing.T) {
	// A retained overlap tail followed by a near-chunkSize paragraph must
	// not produce an oversized window.
	text := strings.Repeat("a", 50) + "\n\n" + strings.Repeat("b", 15) + "\n\n" + strings.Repeat("c", 90)

	size := 100
	s := New(size, 20)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > size {
			t.Errorf("chunk %d has %d runes, exceeds size %d", i, n, size)
		}
	}
	if !strings.Contains(chunks[len(chunks)-1], strings.Repeat("c", 90)) {
		t.Error("final paragraph missing from last chunk")
	}
}

func TestSplitOverlapCarriesText(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = strings.Repeat("x", 5)
	}
	text := strings.Join(words, " ")

	s := New(30, 12)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-5:]
		if !strings.Contains(chunks[i], prevTail) {
			t.Errorf("chunk %d does not overlap with chunk %d", i, i-1)
		}
	}
}

func TestSplitHardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("a", 250)
	s := New(100, 20)
	chunks := s.Split(text)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for 250 runes at step 80, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Errorf("chunk %d has %d runes, exceeds size", i, n)
		}
	}

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i][20:])
	}
	if rebuilt.String() != text {
		t.Error("hard-cut chunks do not reassemble the original text")
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	paras := []string{"first section", "second section", "third section", "fourth section"}
	text := strings.Join(paras, "\n\n")

	s := New(15, 0)
	chunks := s.Split(text)
	joined := strings.Join(chunks, "\n")
	last := -1
	for _, p := range paras {
		idx := strings.Index(joined, p)
		if idx < 0 {
			t.Fatalf("section %q missing from chunks", p)
		}
		if idx < last {
			t.Errorf("section %q out of order", p)
		}
		last = idx
	}
}
