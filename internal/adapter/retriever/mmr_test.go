package retriever

import (
	"testing"

	"contractiq/internal/domain"
)

func scored(id, text string, score float64) domain.ScoredClause {
	return domain.ScoredClause{
		Clause: domain.Clause{ID: id, Text: text},
		Score:  score,
	}
}

func TestMMRRerankEmpty(t *testing.T) {
	r := NewMMRReranker(0.7, 0.9)
	if got := r.Rerank(nil, 5); got != nil {
		t.Errorf("expected nil for empty candidates, got %v", got)
	}
}

func TestMMRRerankKeepsTopRelevant(t *testing.T) {
	r := NewMMRReranker(0.7, 0.9)
	candidates := []domain.ScoredClause{
		scored("a", "payment shall be made within thirty days", 0.9),
		scored("b", "the governing law of this agreement is delaware", 0.7),
		scored("c", "termination requires sixty days written notice", 0.5),
	}

	results := r.Rerank(candidates, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Clause.ID != "a" {
		t.Errorf("expected most relevant clause first, got %q", results[0].Clause.ID)
	}
}

func TestMMRRerankDropsNearDuplicates(t *testing.T) {
	r := NewMMRReranker(0.7, 0.8)
	candidates := []domain.ScoredClause{
		scored("a", "payment shall be made within thirty days of invoice", 0.9),
		scored("b", "payment shall be made within thirty days of invoice", 0.85),
		scored("c", "termination requires sixty days written notice", 0.5),
	}

	results := r.Rerank(candidates, 3)
	if len(results) != 2 {
		t.Fatalf("expected duplicate to be dropped, got %d results", len(results))
	}
	if results[0].Clause.ID != "a" || results[1].Clause.ID != "c" {
		t.Errorf("unexpected selection: %q, %q", results[0].Clause.ID, results[1].Clause.ID)
	}
}

func TestMMRRerankDiversityBeatsRelevance(t *testing.T) {
	// With a low lambda the similarity penalty dominates, so the
	// dissimilar clause wins over the slightly more relevant near-copy.
	r := NewMMRReranker(0.3, 0.99)
	candidates := []domain.ScoredClause{
		scored("a", "confidential information must not be disclosed to any third party", 1.0),
		scored("b", "confidential information must not be disclosed to third parties ever", 0.95),
		scored("c", "the contractor provides equipment at its own expense", 0.6),
	}

	results := r.Rerank(candidates, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Clause.ID != "c" {
		t.Errorf("expected diverse clause second, got %q", results[1].Clause.ID)
	}
}

func TestMMRRerankKLargerThanCandidates(t *testing.T) {
	r := NewMMRReranker(0.7, 0.9)
	candidates := []domain.ScoredClause{
		scored("a", "indemnification survives termination of this agreement", 0.9),
	}

	results := r.Rerank(candidates, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a", "b"}, []string{"c", "d"}, 0.0},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"a"}, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccardSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("jaccardSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Payment, shall be made (30 days).")
	want := []string{"payment", "shall", "be", "made", "30", "days"}
	if len(got) != len(want) {
		t.Fatalf("tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}
