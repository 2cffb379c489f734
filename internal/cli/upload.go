package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"contractiq/internal/adapter/extractor"
	"contractiq/internal/adapter/fs"
	"contractiq/internal/adapter/segmenter"
	"contractiq/internal/usecase"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload contract documents",
	Long: `Upload one or more contract documents. Each document is segmented into
clauses, and clause embeddings are stored for later retrieval. A path may be a
single file or a directory; directories are scanned for PDF, DOCX, TXT and MD
files. Re-uploading a file replaces its previous data.

Examples:
  contractiq upload contract.pdf
  contractiq upload ./contracts/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	vectorStore, err := newVectorStore(cfg, st, embedder.Dimension())
	if err != nil {
		return err
	}

	seg := segmenter.NewClauseSegmenter(cfg.Segment.MinClauseChars, cfg.Segment.ChunkWords)
	walker := fs.NewWalker(cfg.Extract.Includes, cfg.Extract.Excludes)

	ingest := usecase.NewIngestUseCase(
		st,
		vectorStore,
		embedder,
		extractor.NewFileExtractor(),
		seg,
		walker,
		cfg.Embedding.BatchSize,
	)

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := ingest.Ingest(args, progress)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %d contract(s): %d clauses stored, %d embedded\n",
		result.ContractsStored, result.ClausesStored, result.ClausesEmbedded)

	for _, e := range result.Errors {
		fmt.Printf("warning: %s\n", e)
	}

	if result.ContractsStored == 0 && len(result.Errors) == 0 {
		fmt.Println("No supported documents found.")
	}

	return nil
}
