package rag

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/models"
	"github.com/SatyaDevireddy/dental-insurance-chatbot/provider"
)

// Pipeline turns plan documents into indexed passages and answers retrieval
// queries over them. It owns the splitter and the embedding calls; the Index
// owns the stored passages.
type Pipeline struct {
	splitter        *Splitter
	index           *Index
	llm             provider.LLMProvider
	embeddingModel  string
	keywordFallback bool
	logger          *log.Logger
}

// NewPipeline wires a pipeline from configuration. embeddingModel is the
// provider model key used for both passage and query embeddings.
func NewPipeline(cfg config.RAGConfig, llm provider.LLMProvider, embeddingModel string, index *Index) *Pipeline {
	return &Pipeline{
		splitter:        NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		index:           index,
		llm:             llm,
		embeddingModel:  embeddingModel,
		keywordFallback: cfg.KeywordFallback,
		logger:          log.New(log.Writer(), "[RAG] ", log.LstdFlags),
	}
}

// Index exposes the underlying index for direct inspection.
func (p *Pipeline) Index() *Index { return p.index }

// Ingest splits one document and appends its passages to the index, returning
// the number of passages added. Ingestion is not de-duplicated: re-ingesting
// the same document_id appends duplicate passages. Callers that need a clean
// slate use Rebuild.
func (p *Pipeline) Ingest(ctx context.Context, doc models.PlanDocument) (int, error) {
	chunks := p.splitter.Split(doc.Content)
	if len(chunks) == 0 {
		return 0, nil
	}
	vecs, err := p.llm.Embed(ctx, p.embeddingModel, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed document %s: %w", doc.DocumentID, err)
	}
	if len(vecs) != len(chunks) {
		return 0, fmt.Errorf("document %s: %d chunks but %d vectors", doc.DocumentID, len(chunks), len(vecs))
	}
	for i, chunk := range chunks {
		passage := Passage{
			Content:      chunk,
			DocumentID:   doc.DocumentID,
			PlanID:       doc.PlanID,
			DocumentType: doc.DocumentType,
			Title:        doc.Title,
			ChunkIndex:   i,
		}
		if err := p.index.Add(passage, vecs[i]); err != nil {
			return i, err
		}
	}
	p.logger.Printf("ingested document %s (%s): %d passages", doc.DocumentID, doc.Title, len(chunks))
	return len(chunks), nil
}

// IngestAll ingests a batch of documents and persists the index snapshot.
func (p *Pipeline) IngestAll(ctx context.Context, docs []models.PlanDocument) error {
	for _, doc := range docs {
		if _, err := p.Ingest(ctx, doc); err != nil {
			return err
		}
	}
	return p.index.Save()
}

// Rebuild drops the index and re-ingests the full document set. This is the
// only way to remove passages.
func (p *Pipeline) Rebuild(ctx context.Context, docs []models.PlanDocument) error {
	if err := p.index.Reset(); err != nil {
		return err
	}
	return p.IngestAll(ctx, docs)
}

// Retrieve embeds the query and returns the top-k most similar passages,
// optionally restricted by a metadata filter. When the embedding capability
// is unavailable and keyword fallback is enabled, it degrades to BM25 search
// over the same passages rather than failing the turn.
func (p *Pipeline) Retrieve(ctx context.Context, query string, k int, filter Filter) ([]Result, error) {
	if k <= 0 || p.index.Len() == 0 {
		return nil, nil
	}
	vecs, err := p.llm.Embed(ctx, p.embeddingModel, []string{query})
	if err != nil {
		if p.keywordFallback && errors.Is(err, provider.ErrUnavailable) {
			p.logger.Printf("embedding unavailable, falling back to keyword search: %v", err)
			return p.index.KeywordSearch(query, k, filter)
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: provider returned no vectors")
	}
	return p.index.Retrieve(vecs[0], k, filter), nil
}
