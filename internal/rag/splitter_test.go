package rag

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	chunks := s.Split("  preventive care is covered twice per year  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "preventive care is covered twice per year" {
		t.Fatalf("expected trimmed text, got %q", chunks[0])
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(1000, 200)
	if chunks := s.Split("   \n\n  "); chunks != nil {
		t.Fatalf("expected nil for blank input, got %v", chunks)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("crowns are covered at fifty percent after the waiting period. ")
	}
	chunks := s.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > s.ChunkSize {
			t.Errorf("chunk %d exceeds size: %d > %d", i, len(c), s.ChunkSize)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

// seedLen finds how much of prev's tail was carried into cur as overlap.
// The test texts are non-repetitive, so the longest matching suffix is the
// actual seed.
func seedLen(prev, cur string, maxOverlap int) int {
	n := maxOverlap
	if n > len(prev) {
		n = len(prev)
	}
	for ; n > 0; n-- {
		if strings.HasPrefix(cur, prev[len(prev)-n:]) {
			return n
		}
	}
	return 0
}

func TestSplitOverlapCarriesTail(t *testing.T) {
	s := NewSplitter(50, 10)
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "sentence number %02d here. ", i)
	}
	chunks := s.Split(strings.TrimSpace(b.String()))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if seedLen(chunks[i-1], chunks[i], s.ChunkOverlap) == 0 {
			t.Errorf("chunk %d shares no overlap with chunk %d:\nprev %q\ncur  %q",
				i, i-1, chunks[i-1], chunks[i])
		}
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	s := NewSplitter(80, 15)
	var b strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "benefit clause %02d applies to the plan year. ", i)
	}
	text := strings.TrimSpace(b.String())
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// strip each chunk's seeded overlap, then concatenate
	var out strings.Builder
	for i, c := range chunks {
		if i == 0 {
			out.WriteString(c)
			continue
		}
		out.WriteString(c[seedLen(chunks[i-1], c, s.ChunkOverlap):])
	}
	if out.String() != text {
		t.Fatalf("reconstruction mismatch:\nwant %q\ngot  %q", text, out.String())
	}
}

func TestSplitNoSeparatorsFallsBackToWindows(t *testing.T) {
	s := NewSplitter(10, 2)
	text := strings.Repeat("x", 35)
	chunks := s.Split(text)
	for i, c := range chunks {
		if len(c) > s.ChunkSize {
			t.Errorf("chunk %d exceeds size: %d", i, len(c))
		}
	}
	joined := strings.Join(chunks, "")
	for _, r := range joined {
		if r != 'x' {
			t.Fatalf("unexpected rune %q in chunks", r)
		}
	}
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.ChunkSize != 1000 || s.ChunkOverlap != 200 {
		t.Fatalf("expected defaults 1000/200, got %d/%d", s.ChunkSize, s.ChunkOverlap)
	}
	s = NewSplitter(100, 100)
	if s.ChunkOverlap >= s.ChunkSize {
		t.Fatalf("overlap %d must be below size %d", s.ChunkOverlap, s.ChunkSize)
	}
	if s.ChunkOverlap != 20 {
		t.Fatalf("expected overlap clamped to 20, got %d", s.ChunkOverlap)
	}
	s = NewSplitter(50, -1)
	if s.ChunkOverlap != 10 {
		t.Fatalf("expected overlap clamped to 10 for size 50, got %d", s.ChunkOverlap)
	}
}
