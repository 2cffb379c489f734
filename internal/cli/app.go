package cli

import (
	"fmt"
	"os"
	"time"

	"contractiq/config"
	"contractiq/internal/adapter/embedding"
	"contractiq/internal/adapter/llm"
	"contractiq/internal/adapter/memstore"
	"contractiq/internal/adapter/retriever"
	"contractiq/internal/adapter/store"
	"contractiq/internal/port"
	"contractiq/internal/usecase"
)

// openStore opens the contract database under the root directory, creating
// the data directory on first use.
func openStore() (*store.BoltStore, error) {
	dir := GetRootDir()
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.NewBoltStore(config.DataDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open contract database: %w", err)
	}
	return st, nil
}

// requireStore opens the contract database but fails if nothing was ever
// uploaded, so query commands give a useful message instead of empty output.
func requireStore() (*store.BoltStore, error) {
	if _, err := os.Stat(config.DataDBPath(GetRootDir())); os.IsNotExist(err) {
		return nil, fmt.Errorf("no contracts found. Run 'contractiq upload' first")
	}
	return openStore()
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	ec := cfg.Embedding

	if ec.Provider == "mock" {
		dim := ec.Dimension
		if dim <= 0 {
			dim = 64
		}
		return embedding.NewMockEmbedder(dim), nil
	}

	var (
		emb *embedding.OpenAIEmbedder
		err error
	)
	switch ec.Provider {
	case "openai":
		emb, err = embedding.NewOpenAIEmbedder(ec.APIKeyEnv, ec.Model)
	case "novita":
		emb, err = embedding.NewNovitaEmbedder(ec.APIKeyEnv, ec.Model)
	case "deepseek":
		emb, err = embedding.NewDeepSeekEmbedder(ec.APIKeyEnv, ec.Model)
	case "jina":
		emb, err = embedding.NewJinaEmbedder(ec.APIKeyEnv, ec.Model)
	case "ollama":
		emb, err = embedding.NewOllamaEmbedder(ec.Model, ec.BaseURL)
	default:
		if ec.BaseURL == "" {
			return nil, fmt.Errorf("unknown embedding provider: %s", ec.Provider)
		}
		emb, err = embedding.NewCompatibleEmbedder(ec.APIKeyEnv, ec.Model, ec.BaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	if ec.Dimension > 0 {
		emb = emb.WithDimension(ec.Dimension)
	}

	return emb, nil
}

func newVectorStore(cfg *config.Config, st *store.BoltStore, dimension int) (port.VectorStore, error) {
	switch cfg.Store.Vector {
	case "", "bolt":
		return store.NewBoltVectorStore(st.DB(), dimension)
	case "qdrant":
		qc := cfg.Store.Qdrant
		return store.NewQdrantStore(store.QdrantConfig{
			URL:        qc.URL,
			APIKeyEnv:  qc.APIKeyEnv,
			Collection: qc.Collection,
			Dimension:  dimension,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		})
	case "memory":
		return memstore.NewMemoryVectorStore(dimension), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Store.Vector)
	}
}

func newLLM(cfg *config.Config) (port.LLM, error) {
	cc := cfg.Chat
	client, err := llm.NewClient(cc.Provider, cc.Model, cc.BaseURL, cc.APIKeyEnv, cc.Temperature, cc.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	return client, nil
}

// newRetrieveUseCase wires the semantic retriever with the configured MMR
// settings on top of an open store.
func newRetrieveUseCase(cfg *config.Config, st *store.BoltStore, withMMR bool) (*usecase.RetrieveUseCase, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	vectorStore, err := newVectorStore(cfg, st, embedder.Dimension())
	if err != nil {
		return nil, err
	}

	semantic := retriever.NewSemanticRetriever(vectorStore, embedder, st)

	var mmr *retriever.MMRReranker
	if withMMR && cfg.Retrieve.MMREnabled {
		mmr = retriever.NewMMRReranker(cfg.Retrieve.MMRLambda, cfg.Retrieve.DedupJaccard)
	}

	return usecase.NewRetrieveUseCase(semantic, mmr, cfg.Retrieve.MinScore), nil
}

func resolveTopK(cfg *config.Config, flag int) int {
	if flag > 0 {
		return flag
	}
	if cfg.Retrieve.TopK > 0 {
		return cfg.Retrieve.TopK
	}
	return 10
}
