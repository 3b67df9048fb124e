package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Renderer renders verification reports to JSON, Markdown and stdout
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *TextReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *TextReport, path string) error {
	var b strings.Builder

	b.WriteString("# Verification Report\n\n")
	if report.ConversationID != "" {
		fmt.Fprintf(&b, "**Conversation:** %s\n\n", report.ConversationID)
	}
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Claims:** %d | **Flagged:** %d\n\n", report.ClaimCount, report.LieCount)

	for i, vr := range report.Results {
		fmt.Fprintf(&b, "## Claim %d: %s\n\n", i+1, vr.Claim.Text)
		fmt.Fprintf(&b, "- **Kind:** %s\n", vr.Claim.ContentKind)
		fmt.Fprintf(&b, "- **Verdict:** %s\n", verdictLabel(vr.Result.IsLie))
		fmt.Fprintf(&b, "- **Confidence:** %.2f\n\n", vr.Result.Confidence)
		fmt.Fprintf(&b, "%s\n\n", vr.Result.Summary)

		if len(vr.Result.Evidence) > 0 {
			b.WriteString("### Evidence\n\n")
			for _, ev := range vr.Result.Evidence {
				fmt.Fprintf(&b, "- `%s` [%s/%s] %s\n", ev.File, ev.Category, ev.Severity, ev.Description)
			}
			b.WriteString("\n")
		}

		if vr.Explanation != nil && vr.Explanation.Enabled {
			fmt.Fprintf(&b, "### Explanation (%s)\n\n", vr.Explanation.Provider)
			fmt.Fprintf(&b, "%s\n\n", vr.Explanation.Text)
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by slopwatch\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a short summary to stdout
func (r *Renderer) RenderSummary(report *TextReport) {
	fmt.Printf("\nClaims verified: %d\n", report.ClaimCount)
	fmt.Printf("Flagged as lies: %d\n", report.LieCount)

	for _, vr := range report.Results {
		fmt.Printf("  [%s] %.2f  %s\n", verdictShort(vr.Result.IsLie), vr.Result.Confidence, truncate(vr.Claim.Text, 70))
	}
}

// RenderReport renders the report to the configured outputs
func (p *Pipeline) RenderReport(report *TextReport, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

func verdictLabel(isLie bool) string {
	if isLie {
		return "LIE"
	}
	return "VERIFIED"
}

func verdictShort(isLie bool) string {
	if isLie {
		return "LIE"
	}
	return "OK "
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
