package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/JoodasCode/SlopWatch-sub001/internal/extract"
	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	verifyTimeout time.Duration
	verifyFiles   []string
	verifyConvID  string
	outJSON       string
	outMD         string
	fromFile      bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim-or-text>",
	Short: "Verify an assistant claim against the workspace",
	Long: `Verify checks what an AI assistant said against what the files
actually contain:
- Extract structured claims from the text
- Match each claim's expected patterns against workspace files
- Score confidence from pattern hits and misses
- Return a VERIFIED or LIE verdict with evidence

Example:
  slopwatch verify "I added error handling to the API client"
  slopwatch verify --file transcript.txt --workspace ./myproject
  slopwatch verify "made the layout responsive" --files src/app.css
  slopwatch verify "fixed the null check" --llm --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().StringSliceVar(&verifyFiles, "files", nil, "restrict verification to these workspace paths")
	verifyCmd.Flags().StringVar(&verifyConvID, "conversation", "", "conversation ID for history tracking")
	verifyCmd.Flags().BoolVar(&fromFile, "file", false, "treat the argument as a transcript file path")
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	var report *pipeline.TextReport
	if fromFile {
		report, err = p.VerifyTranscript(ctx, args[0])
	} else if len(verifyFiles) > 0 {
		report, err = verifyScoped(ctx, p, args[0])
	} else {
		report, err = p.VerifyText(ctx, args[0], verifyConvID)
	}
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", report.ClaimCount)
		fmt.Fprintf(os.Stderr, "✓ Flagged %d as lies\n", report.LieCount)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if report.LieCount > 0 {
		os.Exit(1)
	}
	return nil
}

// verifyScoped verifies the argument as one manual claim against an
// explicit file list
func verifyScoped(ctx context.Context, p *pipeline.Pipeline, text string) (*pipeline.TextReport, error) {
	claim := extract.NewManualClaim(text, verifyConvID, nil)

	files, err := p.CollectFiles(verifyFiles)
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}

	vr, err := p.VerifyClaim(ctx, claim, files)
	if err != nil {
		return nil, err
	}

	report := &pipeline.TextReport{
		ConversationID: verifyConvID,
		GeneratedAt:    time.Now().UTC(),
		ClaimCount:     1,
		Results:        []*pipeline.VerifyResult{vr},
	}
	if vr.Result.IsLie {
		report.LieCount = 1
	}
	return report, nil
}
