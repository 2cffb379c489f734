package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"contractiq/internal/adapter/extractor"
	"contractiq/internal/adapter/fs"
	"contractiq/internal/adapter/segmenter"
	"contractiq/internal/domain"
	"contractiq/internal/port"
)

// IngestUseCase turns document files into stored contracts, clauses and
// clause embeddings.
type IngestUseCase struct {
	store       port.ContractStore
	vectorStore port.VectorStore
	embedder    port.Embedder
	extractor   port.Extractor
	segmenter   port.Segmenter
	walker      *fs.Walker
	batchSize   int
	invalidator Invalidator
}

// Invalidator is notified when the stored corpus changes, so cached answers
// computed against the old corpus get discarded.
type Invalidator interface {
	Invalidate()
}

func NewIngestUseCase(
	store port.ContractStore,
	vectorStore port.VectorStore,
	embedder port.Embedder,
	ex port.Extractor,
	seg port.Segmenter,
	walker *fs.Walker,
	batchSize int,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &IngestUseCase{
		store:       store,
		vectorStore: vectorStore,
		embedder:    embedder,
		extractor:   ex,
		segmenter:   seg,
		walker:      walker,
		batchSize:   batchSize,
	}
}

// IngestResult summarizes one ingest run.
type IngestResult struct {
	ContractsStored int
	ClausesStored   int
	ClausesEmbedded int
	Errors          []string
}

// ProgressFunc reports embedding progress as clauses are vectorized.
// done is the number of clauses embedded so far out of total.
type ProgressFunc func(done, total int)

// Ingest uploads every document under each given path. A path may be a single
// file, a directory, or a glob handled by the walker. Re-uploading a path that
// was already ingested replaces the previous contract data.
func (u *IngestUseCase) Ingest(paths []string, progress ProgressFunc) (*IngestResult, error) {
	result := &IngestResult{}

	var files []fs.FileInfo
	for _, p := range paths {
		found, err := u.walker.Walk(p)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("walk %s: %v", p, err))
			continue
		}
		files = append(files, found...)
	}

	for _, file := range files {
		if err := u.ingestFile(file, result, progress); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ingest %s: %v", file.Path, err))
			continue
		}
		result.ContractsStored++
	}

	if err := u.refreshStats(); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	if result.ContractsStored > 0 && u.invalidator != nil {
		u.invalidator.Invalidate()
	}

	return result, nil
}

// WithInvalidator registers a hook called after the corpus changes.
func (u *IngestUseCase) WithInvalidator(inv Invalidator) *IngestUseCase {
	u.invalidator = inv
	return u
}

func (u *IngestUseCase) ingestFile(file fs.FileInfo, result *IngestResult, progress ProgressFunc) error {
	text, err := u.extractor.Extract(file.Path)
	if err != nil {
		return err
	}

	// Replace any earlier upload of the same file
	if err := u.removeExistingByPath(file.Path); err != nil {
		return fmt.Errorf("remove previous upload: %w", err)
	}

	contractID := generateContractID(file.Path, file.ModTime)
	contract := domain.Contract{
		ID:         contractID,
		Path:       file.Path,
		Filename:   filepath.Base(file.Path),
		Format:     extractor.Format(file.Path),
		UploadedAt: time.Now(),
	}
	if err := u.store.PutContract(contract); err != nil {
		return fmt.Errorf("store contract: %w", err)
	}

	clauses := u.segmenter.Segment(text)

	stored := make([]domain.Clause, 0, len(clauses))
	for i, clauseText := range clauses {
		clause := domain.Clause{
			ID:         generateClauseID(contractID, i),
			ContractID: contractID,
			Index:      i,
			Text:       clauseText,
		}
		if err := u.store.PutClause(clause); err != nil {
			return fmt.Errorf("store clause %d: %w", i, err)
		}
		stored = append(stored, clause)
		result.ClausesStored++
	}

	embedded, err := u.embedClauses(stored, progress)
	if err != nil {
		return fmt.Errorf("embed clauses: %w", err)
	}
	result.ClausesEmbedded += embedded

	return nil
}

// embedClauses vectorizes and upserts every non-sentinel clause in batches.
func (u *IngestUseCase) embedClauses(clauses []domain.Clause, progress ProgressFunc) (int, error) {
	embeddable := make([]domain.Clause, 0, len(clauses))
	for _, c := range clauses {
		if segmenter.IsSentinel(c.Text) {
			continue
		}
		embeddable = append(embeddable, c)
	}
	if len(embeddable) == 0 {
		return 0, nil
	}

	done := 0
	for start := 0; start < len(embeddable); start += u.batchSize {
		end := start + u.batchSize
		if end > len(embeddable) {
			end = len(embeddable)
		}
		batch := embeddable[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := u.embedder.Embed(texts)
		if err != nil {
			return done, err
		}
		if len(vectors) != len(batch) {
			return done, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}

		items := make([]port.VectorItem, len(batch))
		for i, c := range batch {
			items[i] = port.VectorItem{
				ID:     c.ID,
				Vector: vectors[i],
				Metadata: map[string]string{
					"contract_id": c.ContractID,
					"text":        c.Text,
				},
			}
		}
		if err := u.vectorStore.Upsert(items); err != nil {
			return done, err
		}

		done += len(batch)
		if progress != nil {
			progress(done, len(embeddable))
		}
	}

	return done, nil
}

// Delete removes a contract, its clauses, and their vectors.
func (u *IngestUseCase) Delete(contractID string) error {
	clauses, err := u.store.GetClausesByContract(contractID)
	if err != nil {
		return fmt.Errorf("load clauses: %w", err)
	}

	if len(clauses) > 0 {
		ids := make([]string, len(clauses))
		for i, c := range clauses {
			ids[i] = c.ID
		}
		if err := u.vectorStore.Delete(ids); err != nil {
			return fmt.Errorf("delete vectors: %w", err)
		}
	}

	if err := u.store.DeleteClausesByContract(contractID); err != nil {
		return fmt.Errorf("delete clauses: %w", err)
	}
	if err := u.store.DeleteContract(contractID); err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}

	if u.invalidator != nil {
		u.invalidator.Invalidate()
	}

	return u.refreshStats()
}

func (u *IngestUseCase) removeExistingByPath(path string) error {
	contracts, err := u.store.ListContracts()
	if err != nil {
		return err
	}
	for _, c := range contracts {
		if c.Path != path {
			continue
		}
		clauses, err := u.store.GetClausesByContract(c.ID)
		if err != nil {
			return err
		}
		if len(clauses) > 0 {
			ids := make([]string, len(clauses))
			for i, cl := range clauses {
				ids[i] = cl.ID
			}
			if err := u.vectorStore.Delete(ids); err != nil {
				return err
			}
		}
		if err := u.store.DeleteClausesByContract(c.ID); err != nil {
			return err
		}
		if err := u.store.DeleteContract(c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (u *IngestUseCase) refreshStats() error {
	contracts, err := u.store.ListContracts()
	if err != nil {
		return err
	}

	totalClauses := 0
	totalLen := 0
	for _, c := range contracts {
		clauses, err := u.store.GetClausesByContract(c.ID)
		if err != nil {
			return err
		}
		totalClauses += len(clauses)
		for _, cl := range clauses {
			totalLen += len(cl.Text)
		}
	}

	avg := 0.0
	if totalClauses > 0 {
		avg = float64(totalLen) / float64(totalClauses)
	}

	return u.store.UpdateStats(domain.Stats{
		TotalContracts: len(contracts),
		TotalClauses:   totalClauses,
		AvgClauseLen:   avg,
	})
}

// generateContractID derives a stable ID from the file path and its
// modification time, so a changed file gets a fresh ID on re-upload.
func generateContractID(path string, modTime int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", path, modTime)))
	return hex.EncodeToString(hash[:8])
}

func generateClauseID(contractID string, index int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", contractID, index)))
	return hex.EncodeToString(hash[:8])
}
