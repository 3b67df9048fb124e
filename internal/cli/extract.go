package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JoodasCode/SlopWatch-sub001/internal/extract"
	"github.com/spf13/cobra"
)

var (
	extractConvID string
	extractJSON   bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <text-or-file>",
	Short: "Extract verifiable claims from assistant text",
	Long: `Extract parses assistant text into structured claims without
running verification. Useful for inspecting what would be checked.

Example:
  slopwatch extract "I added error handling and fixed the memory leak"
  slopwatch extract transcript.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractConvID, "conversation", "", "conversation ID to attach to claims")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print claims as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text := args[0]

	// Treat an existing file path as a transcript
	if data, err := os.ReadFile(text); err == nil {
		text = string(data)
	}

	claims := extract.NewClaimExtractor().Extract(text, extractConvID)

	if extractJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	}

	if len(claims) == 0 {
		fmt.Println("No verifiable claims found.")
		return nil
	}

	fmt.Printf("Found %d claim(s):\n\n", len(claims))
	for i, c := range claims {
		fmt.Printf("%d. [%s/%s] %.2f  %s\n", i+1, c.ContentKind, c.Action, c.Confidence, c.Text)
		if c.Target != "" {
			fmt.Printf("   target: %s\n", c.Target)
		}
	}

	return nil
}
