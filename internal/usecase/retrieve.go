package usecase

import (
	"contractiq/internal/adapter/retriever"
	"contractiq/internal/domain"
	"contractiq/internal/port"
)

// RetrieveUseCase finds clauses relevant to a query.
type RetrieveUseCase struct {
	retriever   port.Retriever
	mmrReranker *retriever.MMRReranker
	minScore    float64 // drop results below this similarity (0 = disabled)
}

func NewRetrieveUseCase(
	ret port.Retriever,
	mmrReranker *retriever.MMRReranker,
	minScore float64,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		retriever:   ret,
		mmrReranker: mmrReranker,
		minScore:    minScore,
	}
}

// Retrieve searches for the topK clauses most relevant to the query.
// Candidates are over-fetched so that MMR has room to swap near-duplicate
// boilerplate for distinct clauses.
func (u *RetrieveUseCase) Retrieve(query string, topK int) ([]domain.ScoredClause, error) {
	candidates, err := u.retriever.Search(query, topK*2)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	results := candidates
	if u.mmrReranker != nil {
		results = u.mmrReranker.Rerank(candidates, topK)
	}

	if u.minScore > 0 {
		results = u.filterByScore(results)
	}

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// RetrieveWithoutMMR searches without diversification (for debugging output).
func (u *RetrieveUseCase) RetrieveWithoutMMR(query string, topK int) ([]domain.ScoredClause, error) {
	results, err := u.retriever.Search(query, topK)
	if err != nil {
		return nil, err
	}
	if u.minScore > 0 {
		results = u.filterByScore(results)
	}
	return results, nil
}

func (u *RetrieveUseCase) filterByScore(results []domain.ScoredClause) []domain.ScoredClause {
	filtered := make([]domain.ScoredClause, 0, len(results))
	for _, r := range results {
		if r.Score >= u.minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
