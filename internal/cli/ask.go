package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"contractiq/internal/adapter/cache"
	"contractiq/internal/usecase"
)

var (
	askQuery       string
	askTopK        int
	askJSON        bool
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question about your contracts",
	Long: `Ask a natural-language question about the uploaded contracts. The most
relevant clauses are retrieved and passed to the LLM as grounding context.

Examples:
  contractiq ask -q "What are the payment terms?"
  contractiq ask -q "Can I terminate early?" --top-k 5 --show-context`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "question to ask (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of clauses to use as context (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the clauses used as context")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	retrieveUC, err := newRetrieveUseCase(cfg, st, true)
	if err != nil {
		return err
	}

	llmClient, err := newLLM(cfg)
	if err != nil {
		return err
	}

	answerCache := cache.NewAnswerCache(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSecs)*time.Second)
	askUC := usecase.NewAskUseCase(retrieveUC, llmClient, answerCache)

	answer, err := askUC.Ask(askQuery, resolveTopK(cfg, askTopK))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Response)

	if answer.RelevantClauses > 0 {
		fmt.Printf("\n(based on %d relevant clause(s))\n", answer.RelevantClauses)
	} else {
		fmt.Println("\n(no directly relevant clauses were found in the uploaded contracts)")
	}

	if askShowContext && len(answer.Context) > 0 {
		fmt.Println("\nContext clauses:")
		for i, clause := range answer.Context {
			fmt.Printf("--- [%d] ---\n%s\n", i+1, clause)
		}
	}

	return nil
}
