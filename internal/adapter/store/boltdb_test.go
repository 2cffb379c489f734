package store

import (
	"path/filepath"
	"testing"
	"time"

	"contractiq/internal/domain"
	"contractiq/internal/port"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "contracts.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContractRoundTrip(t *testing.T) {
	s := newTestStore(t)

	c := domain.Contract{
		ID:         "c1",
		Path:       "/tmp/lease.pdf",
		Filename:   "lease.pdf",
		Format:     "pdf",
		UploadedAt: time.Unix(1700000000, 0),
	}
	if err := s.PutContract(c); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetContract("c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Filename != "lease.pdf" || got.Format != "pdf" {
		t.Errorf("got %+v", got)
	}
	if !got.UploadedAt.Equal(c.UploadedAt) {
		t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, c.UploadedAt)
	}
}

func TestClausesByContractPreserveOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		clause := domain.Clause{
			ID:         string(rune('a' + i)),
			ContractID: "c1",
			Index:      i,
			Text:       "clause text",
		}
		if err := s.PutClause(clause); err != nil {
			t.Fatal(err)
		}
	}

	clauses, err := s.GetClausesByContract("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(clauses) != 5 {
		t.Fatalf("expected 5 clauses, got %d", len(clauses))
	}
	for i, clause := range clauses {
		if clause.Index != i {
			t.Errorf("clause %d has index %d, insertion order not preserved", i, clause.Index)
		}
	}
}

func TestDeleteClausesByContract(t *testing.T) {
	s := newTestStore(t)

	clause := domain.Clause{ID: "x", ContractID: "c1", Index: 0, Text: "text"}
	if err := s.PutClause(clause); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteClausesByContract("c1"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetClause("x"); err == nil {
		t.Error("expected clause to be gone")
	}
	clauses, err := s.GetClausesByContract("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(clauses) != 0 {
		t.Errorf("expected no clauses, got %d", len(clauses))
	}
}

func TestBoltVectorStoreSearch(t *testing.T) {
	s := newTestStore(t)

	vs, err := NewBoltVectorStore(s.DB(), 3)
	if err != nil {
		t.Fatal(err)
	}

	items := []port.VectorItem{
		{ID: "a", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"contract_id": "c1"}},
		{ID: "b", Vector: []float32{0, 1, 0}},
		{ID: "c", Vector: []float32{0.9, 0.1, 0}},
	}
	if err := vs.Upsert(items); err != nil {
		t.Fatal(err)
	}

	results, err := vs.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" {
		t.Errorf("best match = %s, want a", results[0].ID)
	}
	if results[1].ID != "c" {
		t.Errorf("second match = %s, want c", results[1].ID)
	}
	if results[0].Metadata["contract_id"] != "c1" {
		t.Errorf("metadata lost: %v", results[0].Metadata)
	}
}

func TestBoltVectorStoreDimensionMismatch(t *testing.T) {
	s := newTestStore(t)

	vs, err := NewBoltVectorStore(s.DB(), 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := vs.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0}}}); err == nil {
		t.Error("expected dimension mismatch error on upsert")
	}
	if _, err := vs.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestBoltVectorStoreDelete(t *testing.T) {
	s := newTestStore(t)

	vs, err := NewBoltVectorStore(s.DB(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := vs.Upsert([]port.VectorItem{{ID: "a", Vector: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}
	if err := vs.Delete([]string{"a"}); err != nil {
		t.Fatal(err)
	}
	n, err := vs.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d vectors", n)
	}
}
