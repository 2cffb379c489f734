package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"contractiq/internal/adapter/extractor"
	"contractiq/internal/adapter/fs"
	"contractiq/internal/adapter/segmenter"
	"contractiq/internal/usecase"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <contract-id>",
	Short: "Delete an uploaded contract",
	Long: `Delete a contract, its clauses, and their embeddings. Use 'contractiq list'
to find contract IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	contractID := args[0]

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	contract, err := st.GetContract(contractID)
	if err != nil {
		return fmt.Errorf("contract not found: %s", contractID)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	vectorStore, err := newVectorStore(cfg, st, embedder.Dimension())
	if err != nil {
		return err
	}

	ingest := usecase.NewIngestUseCase(
		st,
		vectorStore,
		embedder,
		extractor.NewFileExtractor(),
		segmenter.NewClauseSegmenter(cfg.Segment.MinClauseChars, cfg.Segment.ChunkWords),
		fs.NewWalker(cfg.Extract.Includes, cfg.Extract.Excludes),
		cfg.Embedding.BatchSize,
	)

	if err := ingest.Delete(contractID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Printf("Deleted %s (%s)\n", contract.Filename, contractID)
	return nil
}
