package memstore

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"contractiq/internal/domain"
	"contractiq/internal/port"
)

// MemoryStore is an in-memory ContractStore used by tests and throwaway runs.
type MemoryStore struct {
	mu              sync.RWMutex
	contracts       map[string]domain.Contract
	clauses         map[string]domain.Clause
	contractClauses map[string][]string
	stats           domain.Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contracts:       make(map[string]domain.Contract),
		clauses:         make(map[string]domain.Clause),
		contractClauses: make(map[string][]string),
	}
}

func (s *MemoryStore) PutContract(c domain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
	return nil
}

func (s *MemoryStore) GetContract(id string) (domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return domain.Contract{}, fmt.Errorf("contract not found: %s", id)
	}
	return c, nil
}

func (s *MemoryStore) DeleteContract(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contracts, id)
	return nil
}

func (s *MemoryStore) ListContracts() ([]domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contracts := make([]domain.Contract, 0, len(s.contracts))
	for _, c := range s.contracts {
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func (s *MemoryStore) PutClause(clause domain.Clause) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clauses[clause.ID] = clause
	s.contractClauses[clause.ContractID] = append(s.contractClauses[clause.ContractID], clause.ID)
	return nil
}

func (s *MemoryStore) GetClause(id string) (domain.Clause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clause, ok := s.clauses[id]
	if !ok {
		return domain.Clause{}, fmt.Errorf("clause not found: %s", id)
	}
	return clause, nil
}

func (s *MemoryStore) GetClausesByContract(contractID string) ([]domain.Clause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clauseIDs := s.contractClauses[contractID]
	clauses := make([]domain.Clause, 0, len(clauseIDs))
	for _, id := range clauseIDs {
		if clause, ok := s.clauses[id]; ok {
			clauses = append(clauses, clause)
		}
	}
	return clauses, nil
}

func (s *MemoryStore) DeleteClausesByContract(contractID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.contractClauses[contractID] {
		delete(s.clauses, id)
	}
	delete(s.contractClauses, contractID)
	return nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

// MemoryVectorStore is an in-memory VectorStore with brute-force cosine
// search, mirroring the bbolt-backed store without persistence.
type MemoryVectorStore struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[string][]float32
	metadata  map[string]map[string]string
}

func NewMemoryVectorStore(dimension int) *MemoryVectorStore {
	return &MemoryVectorStore{
		dimension: dimension,
		vectors:   make(map[string][]float32),
		metadata:  make(map[string]map[string]string),
	}
}

func (s *MemoryVectorStore) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		s.vectors[item.ID] = item.Vector
		s.metadata[item.ID] = item.Metadata
	}
	return nil
}

func (s *MemoryVectorStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	results := make([]port.VectorResult, 0, len(s.vectors))
	for id, vec := range s.vectors {
		results = append(results, port.VectorResult{
			ID:       id,
			Score:    cosine(query, vec),
			Metadata: s.metadata[id],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryVectorStore) Delete(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.vectors, id)
		delete(s.metadata, id)
	}
	return nil
}

func (s *MemoryVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
