package domain

import "time"

type Contract struct {
	ID         string
	Path       string
	Filename   string
	Format     string
	UploadedAt time.Time
}

// Clause is one segmented unit of contract text. It has no identity beyond
// its ID and its position within the contract.
type Clause struct {
	ID         string
	ContractID string
	Index      int
	Text       string
}

type ScoredClause struct {
	Clause Clause
	Score  float64
}

// Answer is the result of asking a question against the stored contracts.
type Answer struct {
	Query           string   `json:"query"`
	Response        string   `json:"response"`
	Context         []string `json:"context,omitempty"`
	FoundClauses    int      `json:"found_clauses"`
	RelevantClauses int      `json:"relevant_clauses"`
}

type Stats struct {
	TotalContracts int
	TotalClauses   int
	AvgClauseLen   float64
}
