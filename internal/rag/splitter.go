package rag

import "strings"

// defaultSeparators is the split hierarchy: paragraph, line, sentence, word,
// character. Each class is only tried when the previous one cannot produce a
// window within the target size.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts document text into overlapping windows sized for embedding.
// The last ChunkOverlap bytes of each window seed the next window so no
// boundary is lost to a hard cut.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given target window size and
// overlap. Values out of range fall back to the pipeline defaults (1000/200).
func NewSplitter(size, overlap int) *Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 200
		if overlap >= size {
			overlap = size / 5
		}
	}
	return &Splitter{ChunkSize: size, ChunkOverlap: overlap, separators: defaultSeparators}
}

// Split returns the overlapping windows of text. Concatenating the windows
// with each window's seeded overlap removed reconstructs the trimmed input.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}
	return s.merge(s.splitBySeparators(text, s.separators))
}

// splitBySeparators breaks text into pieces no larger than ChunkSize, trying
// each separator class in order and recursing into oversized pieces with the
// remaining classes.
func (s *Splitter) splitBySeparators(text string, seps []string) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	sep := ""
	rest := []string{}
	for i, c := range seps {
		if c == "" {
			break
		}
		if strings.Contains(text, c) {
			sep = c
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		// character-level windows, the last resort
		var out []string
		for start := 0; start < len(text); start += s.ChunkSize {
			end := start + s.ChunkSize
			if end > len(text) {
				end = len(text)
			}
			out = append(out, text[start:end])
		}
		return out
	}

	var out []string
	for _, part := range splitKeep(text, sep) {
		if len(part) <= s.ChunkSize {
			out = append(out, part)
		} else {
			out = append(out, s.splitBySeparators(part, rest)...)
		}
	}
	return out
}

// merge packs pieces into windows of at most ChunkSize, carrying the tail of
// each flushed window into the next as overlap.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	cur := ""
	for _, p := range pieces {
		if cur != "" && len(cur)+len(p) > s.ChunkSize {
			chunks = append(chunks, cur)
			tail := cur
			if len(tail) > s.ChunkOverlap {
				tail = tail[len(tail)-s.ChunkOverlap:]
			}
			// shrink the carried tail when it would push the next window
			// over the size limit
			if over := len(tail) + len(p) - s.ChunkSize; over > 0 {
				if over >= len(tail) {
					tail = ""
				} else {
					tail = tail[over:]
				}
			}
			cur = tail
		}
		cur += p
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

// splitKeep splits on sep but keeps the separator attached to the preceding
// part, so the pieces concatenate back to the original text.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
