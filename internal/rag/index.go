package rag

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve"
)

// Passage is one chunk of a plan document, sized for embedding and retrieval.
// Passages are immutable once added; the only supported mutation of the index
// is addition (or a full reset for rebuild).
type Passage struct {
	Content      string `json:"content"`
	DocumentID   string `json:"document_id"`
	PlanID       string `json:"plan_id"`
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	ChunkIndex   int    `json:"chunk_index"`
}

// Filter restricts retrieval candidates by metadata equality. All entries
// must match (AND). Supported fields: document_id, plan_id, document_type,
// title.
type Filter map[string]string

// Matches reports whether the passage satisfies every filter entry.
func (f Filter) Matches(p Passage) bool {
	for field, want := range f {
		var got string
		switch field {
		case "document_id":
			got = p.DocumentID
		case "plan_id":
			got = p.PlanID
		case "document_type":
			got = p.DocumentType
		case "title":
			got = p.Title
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// Result is a retrieved passage with its similarity score; higher is better.
type Result struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}

type indexEntry struct {
	Passage Passage   `json:"passage"`
	Vector  []float32 `json:"vector"`
}

// Index holds normalized passage vectors in memory, with a bleve mem-only
// index alongside for keyword search when the embedding capability is down.
// Vectors are L2-normalized at insert and query time so cosine similarity
// reduces to a dot product.
type Index struct {
	mu         sync.RWMutex
	entries    []indexEntry
	keyword    bleve.Index
	persistDir string
}

const snapshotFile = "index.json"

// NewIndex creates an index. When persistDir is non-empty a previous snapshot
// is loaded from it if present, and Save writes back to it.
func NewIndex(persistDir string) (*Index, error) {
	kw, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("keyword index: %w", err)
	}
	ix := &Index{keyword: kw, persistDir: persistDir}
	if persistDir != "" {
		if err := ix.load(); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Add appends a passage with its embedding vector.
func (ix *Index) Add(p Passage, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("passage %s#%d: empty vector", p.DocumentID, p.ChunkIndex)
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	// keyword doc IDs are the insertion position, so hits map back to entries.
	// bleve goes first: a failed insert must not leave a passage that is
	// vector-searchable but invisible to the keyword fallback
	id := strconv.Itoa(len(ix.entries))
	if err := ix.keyword.Index(id, p); err != nil {
		return fmt.Errorf("keyword index %s: %w", id, err)
	}
	ix.entries = append(ix.entries, indexEntry{Passage: p, Vector: normalize(vec)})
	return nil
}

// Len returns the number of passages held.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Retrieve returns up to k passages most similar to the query vector,
// restricted to passages matching filter. The filter is applied before
// ranking, so the result holds up to k matching passages, not k passages
// filtered afterwards. Ties keep insertion order. k <= 0 or an empty index
// yields an empty result, never an error.
func (ix *Index) Retrieve(query []float32, k int, filter Filter) []Result {
	if k <= 0 || len(query) == 0 {
		return nil
	}
	q := normalize(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := make([]Result, 0, len(ix.entries))
	for _, e := range ix.entries {
		if filter != nil && !filter.Matches(e.Passage) {
			continue
		}
		results = append(results, Result{Passage: e.Passage, Score: dot(q, e.Vector)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// KeywordSearch ranks passages by BM25 match against the query text. It is
// the degraded path used when embeddings are unavailable; scores are bleve
// scores, not cosine similarities.
func (ix *Index) KeywordSearch(query string, k int, filter Filter) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.entries) == 0 {
		return nil, nil
	}

	q := bleve.NewQueryStringQuery(query)
	// the filter runs post-hoc, so page through hits until k pass it or the
	// hit list is exhausted; a selective filter must not starve the result
	pageSize := k * 3
	var out []Result
	for from := 0; ; from += pageSize {
		req := bleve.NewSearchRequestOptions(q, pageSize, from, false)
		res, err := ix.keyword.Search(req)
		if err != nil {
			return nil, fmt.Errorf("keyword search: %w", err)
		}
		for _, hit := range res.Hits {
			idx, err := strconv.Atoi(hit.ID)
			if err != nil {
				continue
			}
			if idx < 0 || idx >= len(ix.entries) {
				continue
			}
			p := ix.entries[idx].Passage
			if filter != nil && !filter.Matches(p) {
				continue
			}
			out = append(out, Result{Passage: p, Score: hit.Score})
			if len(out) >= k {
				return out, nil
			}
		}
		if len(res.Hits) < pageSize {
			return out, nil
		}
	}
}

// Reset drops all passages ahead of a full rebuild.
func (ix *Index) Reset() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	kw, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("keyword index: %w", err)
	}
	ix.entries = nil
	ix.keyword = kw
	return nil
}

// Save writes the passage/vector snapshot to the persist directory. It is a
// no-op when persistence is not configured.
func (ix *Index) Save() error {
	if ix.persistDir == "" {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if err := os.MkdirAll(ix.persistDir, 0o755); err != nil {
		return fmt.Errorf("persist dir: %w", err)
	}
	data, err := json.Marshal(ix.entries)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	path := filepath.Join(ix.persistDir, snapshotFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (ix *Index) load() error {
	path := filepath.Join(ix.persistDir, snapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}
	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	ix.entries = entries
	for i, e := range entries {
		id := strconv.Itoa(i)
		if err := ix.keyword.Index(id, e.Passage); err != nil {
			return fmt.Errorf("keyword index %s: %w", id, err)
		}
	}
	return nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
