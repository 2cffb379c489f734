package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contractiq/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "contractiq",
	Short: "ContractIQ - Ask questions about your contracts",
	Long: `ContractIQ ingests contract documents (PDF, DOCX, TXT, MD), segments them
into clauses, stores clause embeddings, and answers natural-language questions
about the contracts using an LLM grounded in the most relevant clauses.

Example usage:
  contractiq upload contract.pdf        # Ingest a contract
  contractiq ask -q "What are the payment terms?"
  contractiq search -q "termination"    # Raw clause search
  contractiq chat                       # Interactive chat session`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./contractiq.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "data directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
