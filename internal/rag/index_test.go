package rag

import (
	"os"
	"path/filepath"
	"testing"
)

func addPassage(t *testing.T, ix *Index, content, docID, docType string, chunk int, vec []float32) {
	t.Helper()
	p := Passage{Content: content, DocumentID: docID, PlanID: "PLAN001", DocumentType: docType, Title: docID, ChunkIndex: chunk}
	if err := ix.Add(p, vec); err != nil {
		t.Fatalf("Add %s#%d: %v", docID, chunk, err)
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	ix, err := NewIndex("")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if got := ix.Retrieve([]float32{1, 0}, 3, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestRetrieveKZero(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "cleanings are free", "DOC001", "policy", 0, []float32{1, 0})
	if got := ix.Retrieve([]float32{1, 0}, 0, nil); got != nil {
		t.Fatalf("k=0 must return empty, got %v", got)
	}
}

func TestRetrieveRanksBySimilarity(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "orthodontics", "DOC001", "policy", 0, []float32{0, 1})
	addPassage(t, ix, "cleanings", "DOC002", "policy", 0, []float32{1, 0})
	addPassage(t, ix, "fillings", "DOC003", "policy", 0, []float32{1, 0.2})

	got := ix.Retrieve([]float32{1, 0}, 2, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Passage.DocumentID != "DOC002" {
		t.Errorf("expected DOC002 first, got %s", got[0].Passage.DocumentID)
	}
	if got[1].Passage.DocumentID != "DOC003" {
		t.Errorf("expected DOC003 second, got %s", got[1].Passage.DocumentID)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("scores out of order: %f < %f", got[0].Score, got[1].Score)
	}
}

func TestRetrieveTiesKeepInsertionOrder(t *testing.T) {
	ix, _ := NewIndex("")
	// identical vectors, identical scores
	addPassage(t, ix, "first", "DOC001", "policy", 0, []float32{3, 0})
	addPassage(t, ix, "second", "DOC002", "policy", 0, []float32{5, 0})
	addPassage(t, ix, "third", "DOC003", "policy", 0, []float32{1, 0})

	got := ix.Retrieve([]float32{1, 0}, 3, nil)
	want := []string{"DOC001", "DOC002", "DOC003"}
	for i, w := range want {
		if got[i].Passage.DocumentID != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got[i].Passage.DocumentID)
		}
	}
}

func TestRetrieveFilterBeforeRank(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "policy text", "DOC001", "policy", 0, []float32{1, 0})
	addPassage(t, ix, "faq entry one", "DOC002", "faq", 0, []float32{0.9, 0.1})
	addPassage(t, ix, "faq entry two", "DOC002", "faq", 1, []float32{0.5, 0.5})

	got := ix.Retrieve([]float32{1, 0}, 2, Filter{"document_type": "faq"})
	if len(got) != 2 {
		t.Fatalf("expected 2 faq results, got %d", len(got))
	}
	for _, r := range got {
		if r.Passage.DocumentType != "faq" {
			t.Errorf("filter leaked: got %s passage", r.Passage.DocumentType)
		}
	}
	// filter applies before ranking: both faq passages survive even though
	// the policy passage scores higher than one of them
	if got[0].Passage.ChunkIndex != 0 || got[1].Passage.ChunkIndex != 1 {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestRetrieveUnknownFilterFieldMatchesNothing(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "text", "DOC001", "policy", 0, []float32{1, 0})
	if got := ix.Retrieve([]float32{1, 0}, 5, Filter{"author": "anyone"}); len(got) != 0 {
		t.Fatalf("unknown filter field must match nothing, got %d", len(got))
	}
}

func TestKeywordSearchFindsText(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "Root canal therapy is covered as a basic procedure at 80 percent.", "DOC001", "policy", 0, []float32{1, 0})
	addPassage(t, ix, "Orthodontic treatment has a 12 month waiting period.", "DOC002", "policy", 0, []float32{0, 1})

	got, err := ix.KeywordSearch("root canal", 5, nil)
	if err != nil {
		t.Fatalf("KeywordSearch: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one hit")
	}
	if got[0].Passage.DocumentID != "DOC001" {
		t.Errorf("expected DOC001 first, got %s", got[0].Passage.DocumentID)
	}
}

func TestResetDropsEverything(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "text", "DOC001", "policy", 0, []float32{1, 0})
	if err := ix.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ix.Len() != 0 {
		t.Fatalf("expected empty index after reset, got %d", ix.Len())
	}
	if got, _ := ix.KeywordSearch("text", 5, nil); len(got) != 0 {
		t.Fatalf("keyword index survived reset: %v", got)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	ix, err := NewIndex(dir)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	addPassage(t, ix, "crowns are covered at fifty percent", "DOC001", "policy", 0, []float32{1, 0})
	addPassage(t, ix, "cleanings twice per year", "DOC002", "faq", 0, []float32{0, 1})
	if err := ix.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, snapshotFile)); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	reloaded, err := NewIndex(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 passages after reload, got %d", reloaded.Len())
	}
	got := reloaded.Retrieve([]float32{1, 0}, 1, nil)
	if len(got) != 1 || got[0].Passage.DocumentID != "DOC001" {
		t.Fatalf("unexpected retrieval after reload: %v", got)
	}
	// keyword side must be rebuilt from the snapshot too
	hits, err := reloaded.KeywordSearch("crowns", 5, nil)
	if err != nil || len(hits) == 0 {
		t.Fatalf("keyword search after reload: hits=%v err=%v", hits, err)
	}
}

func TestNormalizeMakesUnitVectors(t *testing.T) {
	v := normalize([]float32{3, 4})
	if got := dot(v, v); got < 0.999 || got > 1.001 {
		t.Fatalf("expected unit vector, |v|^2 = %f", got)
	}
	zero := normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("zero vector must stay zero, got %v", zero)
	}
}

func TestKeywordSearchIDsStayAligned(t *testing.T) {
	ix, _ := NewIndex("")
	addPassage(t, ix, "Preventive cleanings are covered twice per year.", "DOC001", "policy", 0, []float32{1, 0})
	addPassage(t, ix, "Crowns require prior authorization over 800 dollars.", "DOC002", "policy", 0, []float32{0, 1})
	addPassage(t, ix, "Dentures are a major restorative benefit.", "DOC003", "policy", 0, []float32{1, 1})

	got, err := ix.KeywordSearch("dentures", 5, nil)
	if err != nil {
		t.Fatalf("KeywordSearch: %v", err)
	}
	if len(got) == 0 || got[0].Passage.DocumentID != "DOC003" {
		t.Fatalf("keyword hit must map back to the passage it indexed, got %v", got)
	}
}

func TestKeywordSearchPagesPastFilteredHits(t *testing.T) {
	ix, _ := NewIndex("")
	// strong matches that the filter rejects, ranked ahead of the two weak
	// matches it accepts
	for i := 0; i < 8; i++ {
		addPassage(t, ix, "fluoride fluoride fluoride", "POL", "policy", i, []float32{1, 0})
	}
	long := "fluoride varnish is applied during a routine preventive visit and is covered for children under the plan once in any six month period"
	addPassage(t, ix, long, "FAQ", "faq", 0, []float32{0, 1})
	addPassage(t, ix, long+" subject to the usual frequency limits", "FAQ", "faq", 1, []float32{1, 1})

	got, err := ix.KeywordSearch("fluoride", 2, Filter{"document_type": "faq"})
	if err != nil {
		t.Fatalf("KeywordSearch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 faq hits despite higher-ranked filtered matches, got %d", len(got))
	}
	for _, r := range got {
		if r.Passage.DocumentType != "faq" {
			t.Errorf("filter leaked: %s", r.Passage.DocumentType)
		}
	}
}
