package port

import "contractiq/internal/domain"

// ContractStore persists contracts and their segmented clauses.
type ContractStore interface {
	PutContract(c domain.Contract) error
	GetContract(id string) (domain.Contract, error)
	DeleteContract(id string) error
	ListContracts() ([]domain.Contract, error)

	PutClause(clause domain.Clause) error
	GetClause(id string) (domain.Clause, error)
	GetClausesByContract(contractID string) ([]domain.Clause, error)
	DeleteClausesByContract(contractID string) error

	GetStats() (domain.Stats, error)
	UpdateStats(stats domain.Stats) error
}

// Retriever finds clauses relevant to a natural-language query.
type Retriever interface {
	Search(query string, k int) ([]domain.ScoredClause, error)
}
