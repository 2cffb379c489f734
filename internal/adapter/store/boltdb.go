package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"contractiq/internal/domain"
)

var (
	bucketContracts       = []byte("contracts")
	bucketClauses         = []byte("clauses")
	bucketBlobs           = []byte("blobs")
	bucketContractClauses = []byte("contract_clauses")
	bucketStats           = []byte("stats")
	keyStats              = []byte("corpus_stats")
)

// BoltStore persists contracts and their clauses in a single bbolt file.
// Clause text lives in a separate blob bucket keyed by clause ID so metadata
// scans stay cheap.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketContracts, bucketClauses, bucketBlobs, bucketContractClauses, bucketStats}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type contractMeta struct {
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	UploadedAt int64  `json:"uploaded_at"`
}

type clauseMeta struct {
	ContractID string `json:"contract_id"`
	Index      int    `json:"index"`
}

func (s *BoltStore) PutContract(c domain.Contract) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := contractMeta{
			Path:       c.Path,
			Filename:   c.Filename,
			Format:     c.Format,
			UploadedAt: c.UploadedAt.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketContracts).Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) GetContract(id string) (domain.Contract, error) {
	var c domain.Contract
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketContracts).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("contract not found: %s", id)
		}
		var meta contractMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		c = domain.Contract{
			ID:         id,
			Path:       meta.Path,
			Filename:   meta.Filename,
			Format:     meta.Format,
			UploadedAt: time.Unix(meta.UploadedAt, 0),
		}
		return nil
	})
	return c, err
}

func (s *BoltStore) DeleteContract(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketContracts).Delete([]byte(id))
	})
}

func (s *BoltStore) ListContracts() ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContracts)
		return b.ForEach(func(k, v []byte) error {
			var meta contractMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			contracts = append(contracts, domain.Contract{
				ID:         string(k),
				Path:       meta.Path,
				Filename:   meta.Filename,
				Format:     meta.Format,
				UploadedAt: time.Unix(meta.UploadedAt, 0),
			})
			return nil
		})
	})
	return contracts, err
}

func (s *BoltStore) PutClause(clause domain.Clause) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := clauseMeta{
			ContractID: clause.ContractID,
			Index:      clause.Index,
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketClauses).Put([]byte(clause.ID), data); err != nil {
			return err
		}

		if err := tx.Bucket(bucketBlobs).Put([]byte(clause.ID), []byte(clause.Text)); err != nil {
			return err
		}

		contractClauses := tx.Bucket(bucketContractClauses)
		var clauseIDs []string
		if existing := contractClauses.Get([]byte(clause.ContractID)); existing != nil {
			json.Unmarshal(existing, &clauseIDs)
		}
		clauseIDs = append(clauseIDs, clause.ID)
		clauseIDsData, _ := json.Marshal(clauseIDs)
		return contractClauses.Put([]byte(clause.ContractID), clauseIDsData)
	})
}

func (s *BoltStore) GetClause(id string) (domain.Clause, error) {
	var clause domain.Clause
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClauses).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("clause not found: %s", id)
		}
		var meta clauseMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		text := tx.Bucket(bucketBlobs).Get([]byte(id))
		clause = domain.Clause{
			ID:         id,
			ContractID: meta.ContractID,
			Index:      meta.Index,
			Text:       string(text),
		}
		return nil
	})
	return clause, err
}

func (s *BoltStore) GetClausesByContract(contractID string) ([]domain.Clause, error) {
	var clauses []domain.Clause
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketContractClauses).Get([]byte(contractID))
		if data == nil {
			return nil
		}
		var clauseIDs []string
		if err := json.Unmarshal(data, &clauseIDs); err != nil {
			return err
		}
		clauseBucket := tx.Bucket(bucketClauses)
		blobBucket := tx.Bucket(bucketBlobs)
		for _, id := range clauseIDs {
			data := clauseBucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var meta clauseMeta
			if err := json.Unmarshal(data, &meta); err != nil {
				continue
			}
			text := blobBucket.Get([]byte(id))
			clauses = append(clauses, domain.Clause{
				ID:         id,
				ContractID: meta.ContractID,
				Index:      meta.Index,
				Text:       string(text),
			})
		}
		return nil
	})
	return clauses, err
}

func (s *BoltStore) DeleteClausesByContract(contractID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		contractClauses := tx.Bucket(bucketContractClauses)
		data := contractClauses.Get([]byte(contractID))
		if data == nil {
			return nil
		}
		var clauseIDs []string
		if err := json.Unmarshal(data, &clauseIDs); err != nil {
			return err
		}
		clauseBucket := tx.Bucket(bucketClauses)
		blobBucket := tx.Bucket(bucketBlobs)
		for _, id := range clauseIDs {
			clauseBucket.Delete([]byte(id))
			blobBucket.Delete([]byte(id))
		}
		return contractClauses.Delete([]byte(contractID))
	})
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}
