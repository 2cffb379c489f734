package retriever

import (
	"fmt"

	"contractiq/internal/domain"
	"contractiq/internal/port"
)

// SemanticRetriever finds clauses by embedding the query and searching the
// vector store, then resolving clause records from the contract store.
type SemanticRetriever struct {
	vectorStore port.VectorStore
	embedder    port.Embedder
	clauseStore port.ContractStore
}

func NewSemanticRetriever(
	vectorStore port.VectorStore,
	embedder port.Embedder,
	clauseStore port.ContractStore,
) *SemanticRetriever {
	return &SemanticRetriever{
		vectorStore: vectorStore,
		embedder:    embedder,
		clauseStore: clauseStore,
	}
}

func (r *SemanticRetriever) Search(query string, k int) ([]domain.ScoredClause, error) {
	if r.vectorStore == nil || r.embedder == nil {
		return nil, fmt.Errorf("semantic search not available: embeddings not configured")
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := r.vectorStore.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	clauses := make([]domain.ScoredClause, 0, len(results))
	for _, result := range results {
		clause, err := r.clauseStore.GetClause(result.ID)
		if err != nil {
			// Vector without a clause record: fall back to the payload
			// text so remote stores (qdrant) still return usable hits.
			if text, ok := result.Metadata["text"]; ok && text != "" {
				clause = domain.Clause{
					ID:         result.ID,
					ContractID: result.Metadata["contract_id"],
					Text:       text,
				}
			} else {
				continue
			}
		}
		clauses = append(clauses, domain.ScoredClause{
			Clause: clause,
			Score:  result.Score,
		})
	}

	return clauses, nil
}
