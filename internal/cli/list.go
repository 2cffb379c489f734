package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

type contractListing struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	Clauses    int    `json:"clauses"`
	UploadedAt string `json:"uploaded_at"`
	Path       string `json:"path"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded contracts",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := requireStore()
	if err != nil {
		return err
	}
	defer st.Close()

	contracts, err := st.ListContracts()
	if err != nil {
		return fmt.Errorf("failed to list contracts: %w", err)
	}

	listings := make([]contractListing, 0, len(contracts))
	for _, c := range contracts {
		clauses, err := st.GetClausesByContract(c.ID)
		if err != nil {
			return fmt.Errorf("failed to load clauses for %s: %w", c.ID, err)
		}
		listings = append(listings, contractListing{
			ID:         c.ID,
			Filename:   c.Filename,
			Format:     c.Format,
			Clauses:    len(clauses),
			UploadedAt: c.UploadedAt.Format("2006-01-02 15:04"),
			Path:       c.Path,
		})
	}

	if listJSON {
		output, _ := json.MarshalIndent(listings, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(listings) == 0 {
		fmt.Println("No contracts uploaded yet.")
		return nil
	}

	fmt.Printf("%-18s %-30s %-6s %8s  %s\n", "ID", "FILENAME", "FORMAT", "CLAUSES", "UPLOADED")
	for _, l := range listings {
		fmt.Printf("%-18s %-30s %-6s %8d  %s\n", l.ID, l.Filename, l.Format, l.Clauses, l.UploadedAt)
	}

	stats, err := st.GetStats()
	if err == nil && stats.TotalClauses > 0 {
		fmt.Printf("\n%d contract(s), %d clauses, avg clause length %.0f chars\n",
			stats.TotalContracts, stats.TotalClauses, stats.AvgClauseLen)
	}

	return nil
}
