package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"contractiq/internal/port"
)

// QdrantStore is a minimal REST client to a Qdrant collection. It assumes
// cosine distance and creates the collection on first use.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type QdrantConfig struct {
	URL        string
	APIKeyEnv  string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension: %d", cfg.Dimension)
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "contract_clauses"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	var apiKey string
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}

	s := &QdrantStore{
		url:        cfg.URL,
		apiKey:     apiKey,
		collection: collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}

	// Create collection if not exists. Qdrant returns 200 when the
	// collection already exists with the same schema.
	body := map[string]any{
		"vectors": map[string]any{
			"size":     cfg.Dimension,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return nil, fmt.Errorf("failed to init qdrant collection: %w", err)
	}

	return s, nil
}

func (s *QdrantStore) Upsert(items []port.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	points := make([]map[string]any, len(items))
	for i, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		payload := map[string]any{"clause_id": item.ID}
		for k, v := range item.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id":      pointID(item.ID),
			"vector":  item.Vector,
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

func (s *QdrantStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	if k <= 0 {
		k = 5
	}

	req := map[string]any{
		"vector":       query,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]port.VectorResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		id, _ := r.Payload["clause_id"].(string)
		metadata := make(map[string]string, len(r.Payload))
		for key, val := range r.Payload {
			if key == "clause_id" {
				continue
			}
			if str, ok := val.(string); ok {
				metadata[key] = str
			}
		}
		results = append(results, port.VectorResult{
			ID:       id,
			Score:    r.Score,
			Metadata: metadata,
		})
	}
	return results, nil
}

func (s *QdrantStore) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	points := make([]string, len(ids))
	for i, id := range ids {
		points[i] = pointID(id)
	}
	body := map[string]any{"points": points}
	return s.postJSON(fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
}

func (s *QdrantStore) Count() (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection), map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// pointID derives a deterministic UUID-shaped point ID from a clause ID.
// Qdrant only accepts UUIDs or unsigned integers as point IDs; the real
// clause ID travels in the payload.
func pointID(id string) string {
	sum := sha256.Sum256([]byte(id))
	h := hex.EncodeToString(sum[:16])
	return fmt.Sprintf("%s-%s-%s-%s-%s", h[0:8], h[8:12], h[12:16], h[16:20], h[20:32])
}

func (s *QdrantStore) putJSON(url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *QdrantStore) postJSON(url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
