package llm

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain generates a natural-language explanation of a verdict with
	// strict evidence mode
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for verdict explanation
type ExplainRequest struct {
	// Claim is the verified claim
	Claim model.Claim

	// Result is the completed analysis. The explainer reads it and NEVER
	// alters verdict or confidence.
	Result model.AnalysisResult

	// AllowedFiles is the STRICT allowlist of file paths the LLM can cite.
	// This prevents hallucination - the model cannot reference any file
	// outside the analyzed set.
	AllowedFiles []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the LLM's explanation output
type ExplainResponse struct {
	// Explanation is the generated explanation text
	Explanation string

	// CitedFiles are the files the LLM actually cited (for verification)
	CitedFiles []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEvidence enforces the file allowlist (should always be true)
	StrictEvidence bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      500,
	}
}

const systemPrompt = "You are a helpful assistant that explains SlopWatch verdicts with strict adherence to the evidence produced by pattern analysis."

// BuildPrompt constructs the default prompt for verdict explanation with
// strict evidence mode
func BuildPrompt(claim model.Claim, result model.AnalysisResult, allowedFiles []string) string {
	verdict := "VERIFIED"
	if result.IsLie {
		verdict = "LIE"
	}

	prompt := fmt.Sprintf(`You are explaining a SlopWatch verdict. SlopWatch checks whether an AI assistant's claim about code matches the actual file contents - the verdict is already decided and you must not second-guess it.

CRITICAL RULES:
1. You MUST ONLY cite files from this allowed list:
%s

2. DO NOT infer, speculate, or reference files beyond this list.
3. Never change or dispute the verdict or confidence - explain them.
4. Ground every statement in the evidence items below.

Verdict: %s (confidence %.2f)
Claim: %q (kind=%s, action=%s, target=%s)
Supporting evidence: %d
Contradicting evidence: %d

Evidence:
`, joinFiles(allowedFiles), verdict, result.Confidence, claim.Text,
		claim.ContentKind, claim.Action, claim.Target,
		result.CountEvidence(model.EvidenceSupporting),
		result.CountEvidence(model.EvidenceContradicting))

	// Add top evidence items
	for i, e := range result.Evidence {
		if i >= 8 {
			prompt += fmt.Sprintf("... and %d more evidence items\n", len(result.Evidence)-8)
			break
		}
		prompt += fmt.Sprintf("- [%s/%s] %s: %s\n", e.Category, e.Severity, e.File, e.Description)
	}

	prompt += "\nProvide a 2-3 sentence explanation of why the verdict follows from the evidence."

	return prompt
}

// Helper functions

func joinFiles(files []string) string {
	if len(files) == 0 {
		return "(No files were analyzed)"
	}
	result := ""
	for i, f := range files {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more files", len(files)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", f)
	}
	return result
}

// fileRefPattern matches path-like tokens with a recognized source extension
var fileRefPattern = regexp.MustCompile(`[\w./-]+\.(?:jsx?|tsx?|mjs|cjs|go|py|s?css|sass|less|html?|vue|svelte)\b`)

// extractFileRefs extracts file references from text
func extractFileRefs(text string) []string {
	matches := fileRefPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, m := range matches {
		m = strings.Trim(m, ".")
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}
	return unique
}

// allowedRef reports whether a cited reference names an allowlisted file,
// by full path or base name
func allowedRef(allowed []string, ref string) bool {
	for _, a := range allowed {
		if a == ref || filepath.Base(a) == ref || filepath.Base(a) == filepath.Base(ref) {
			return true
		}
	}
	return false
}

// checkCitations enforces strict evidence mode over a generated explanation
func checkCitations(allowed []string, explanation string) ([]string, error) {
	cited := extractFileRefs(explanation)
	for _, ref := range cited {
		if !allowedRef(allowed, ref) {
			return nil, fmt.Errorf("CITATION LEAK: LLM cited file outside the analyzed set: %s", ref)
		}
	}
	return cited, nil
}
