package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"contractiq/internal/adapter/cache"
	"contractiq/internal/tui"
	"contractiq/internal/usecase"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat about your contracts",
	Long: `Start an interactive chat session. Each question is answered using the most
relevant clauses from the uploaded contracts as context.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "number of clauses to use as context (default from config)")
}

func runChat(cmd *cobra.Command, args []string) error {
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

	model := tui.New(askUC, resolveTopK(cfg, chatTopK))
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}

	return nil
}
