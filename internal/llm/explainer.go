package llm

import (
	"context"
	"fmt"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Explanation is the optional LLM-generated verdict explanation.
// CRITICAL: it never affects the verdict or confidence and is clearly
// separated from the analysis result.
type Explanation struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	Text       string   `json:"text,omitempty"`
	CitedFiles []string `json:"cited_files,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Explainer wraps a provider and produces verdict explanations
type Explainer struct {
	provider Provider
	config   Config
}

// NewExplainer creates an explainer from config. A nil return with nil
// error means the explainer is disabled.
func NewExplainer(config Config) (*Explainer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Explainer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (e *Explainer) IsEnabled() bool {
	return e != nil && e.provider != nil
}

// Explain generates an explanation for a completed analysis. The allowed
// file list comes from the evidence itself, so the model can only cite
// files that were actually examined.
func (e *Explainer) Explain(ctx context.Context, claim model.Claim, result model.AnalysisResult) (*Explanation, error) {
	if !e.IsEnabled() {
		return nil, nil
	}

	allowed := allowedFilesFromEvidence(result.Evidence)

	resp, err := e.provider.Explain(ctx, ExplainRequest{
		Claim:        claim,
		Result:       result,
		AllowedFiles: allowed,
	})
	if err != nil {
		return nil, fmt.Errorf("explain verdict: %w", err)
	}

	return &Explanation{
		Enabled:    true,
		Provider:   e.provider.Name(),
		Model:      resp.Model,
		Text:       resp.Explanation,
		CitedFiles: resp.CitedFiles,
	}, nil
}

// allowedFilesFromEvidence collects the distinct file paths the analysis
// actually touched, preserving first-seen order
func allowedFilesFromEvidence(evidence []model.Evidence) []string {
	seen := make(map[string]bool)
	var files []string
	for _, e := range evidence {
		if e.File == "" || seen[e.File] {
			continue
		}
		seen[e.File] = true
		files = append(files, e.File)
	}
	return files
}
