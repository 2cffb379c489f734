package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"contractiq/internal/domain"
)

var (
	searchQuery string
	searchTopK  int
	searchJSON  bool
	searchNoMMR bool
)

// searchResult is the JSON output shape for one matched clause.
type searchResult struct {
	ContractID string  `json:"contract_id"`
	Filename   string  `json:"filename,omitempty"`
	Index      int     `json:"index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored clauses",
	Long: `Search the stored clauses by semantic similarity without involving the LLM.
Useful for inspecting what the ask command would use as context.

Examples:
  contractiq search -q "termination notice period"
  contractiq search -q "indemnification" --top-k 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().BoolVar(&searchNoMMR, "no-mmr", false, "disable MMR diversification")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	retrieveUC, err := newRetrieveUseCase(cfg, st, !searchNoMMR)
	if err != nil {
		return err
	}

	topK := resolveTopK(cfg, searchTopK)

	var scored []domain.ScoredClause
	if searchNoMMR {
		scored, err = retrieveUC.RetrieveWithoutMMR(searchQuery, topK)
	} else {
		scored, err = retrieveUC.Retrieve(searchQuery, topK)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := make([]searchResult, 0, len(scored))
	for _, s := range scored {
		filename := ""
		if contract, err := st.GetContract(s.Clause.ContractID); err == nil {
			filename = contract.Filename
		}
		results = append(results, searchResult{
			ContractID: s.Clause.ContractID,
			Filename:   filename,
			Index:      s.Clause.Index,
			Score:      s.Score,
			Text:       s.Clause.Text,
		})
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No matching clauses found.")
		return nil
	}

	fmt.Printf("Found %d clause(s) for: %s\n\n", len(results), searchQuery)
	for i, r := range results {
		fmt.Printf("--- [%d] %s #%d (score: %.2f) ---\n", i+1, r.Filename, r.Index, r.Score)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
