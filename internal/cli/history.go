package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	historyConvID string
	historyLimit  int
	historyJSON   bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past verification results",
	Long: `History lists stored verification records, newest first.

Example:
  slopwatch history --limit 10
  slopwatch history --conversation session-42 --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyConvID, "conversation", "", "filter by conversation ID")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max records to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if !cfg.Store.Enabled {
		return fmt.Errorf("persistence is disabled (remove --no-store)")
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	records, err := p.History(historyConvID, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No verification records found.")
		return nil
	}

	stats, err := p.Totals()
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}

	fmt.Printf("Showing %d of %d analyses (%d claims, %d flagged overall)\n\n",
		len(records), stats.Analyses, stats.Claims, stats.Lies)

	for _, rec := range records {
		verdict := "OK "
		if rec.Result.IsLie {
			verdict = "LIE"
		}
		fmt.Printf("%s  [%s] %.2f  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), verdict, rec.Result.Confidence, rec.Claim.Text)
	}

	return nil
}
