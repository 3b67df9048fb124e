package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JoodasCode/SlopWatch-sub001/internal/detect"
	"github.com/JoodasCode/SlopWatch-sub001/internal/extract"
	"github.com/JoodasCode/SlopWatch-sub001/internal/llm"
	"github.com/JoodasCode/SlopWatch-sub001/internal/logging"
	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
	"github.com/JoodasCode/SlopWatch-sub001/internal/store"
	"github.com/JoodasCode/SlopWatch-sub001/internal/supply"
)

// Pipeline orchestrates the complete verification process
type Pipeline struct {
	supplier  *supply.Supplier
	extractor *extract.ClaimExtractor
	engine    *detect.Engine
	store     *store.Store  // Optional persistence (nil if disabled)
	explainer *llm.Explainer // Optional LLM explainer (nil if disabled)
	renderer  *Renderer
	config    *model.Config
	log       *slog.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	log := logging.New("pipeline")

	var explainer *llm.Explainer
	if cfg.LLM.Provider != "" {
		e, err := llm.NewExplainer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn("failed to initialize LLM provider", "error", err)
		} else {
			explainer = e
		}
	}

	var st *store.Store
	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		st = s
	}

	return &Pipeline{
		supplier:  supply.NewSupplier(cfg.Workspace, cfg.Cache),
		extractor: extract.NewClaimExtractor(),
		engine:    detect.NewEngine(logging.New("detect")),
		store:     st,
		explainer: explainer,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
		log:       log,
	}, nil
}

// VerifyResult pairs a claim with its analysis and optional explanation
type VerifyResult struct {
	Claim       model.Claim          `json:"claim"`
	Result      model.AnalysisResult `json:"result"`
	Explanation *llm.Explanation     `json:"explanation,omitempty"`
}

// TextReport is the verification report for one piece of assistant text
type TextReport struct {
	ConversationID string          `json:"conversation_id,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	ClaimCount     int             `json:"claim_count"`
	LieCount       int             `json:"lie_count"`
	Results        []*VerifyResult `json:"results"`
}

// VerifyClaim verifies a single claim against the given files. When files
// is nil the workspace is collected fresh.
func (p *Pipeline) VerifyClaim(ctx context.Context, claim model.Claim, files []model.FileContent) (*VerifyResult, error) {
	if files == nil {
		collected, err := p.supplier.Collect()
		if err != nil {
			return nil, fmt.Errorf("collect workspace: %w", err)
		}
		files = collected
	}

	result := p.engine.Analyze(claim, files)

	if p.store != nil {
		if err := p.store.SaveClaim(claim); err != nil {
			p.log.Warn("failed to persist claim", "claim_id", claim.ID, "error", err)
		} else if err := p.store.SaveAnalysis(claim.ID, result); err != nil {
			p.log.Warn("failed to persist analysis", "claim_id", claim.ID, "error", err)
		}
	}

	vr := &VerifyResult{Claim: claim, Result: result}

	// Generate explanation if enabled (AFTER the verdict, never affects it)
	if p.explainer.IsEnabled() {
		explanation, err := p.explainer.Explain(ctx, claim, result)
		if err != nil {
			p.log.Warn("explanation failed", "claim_id", claim.ID, "error", err)
		} else {
			vr.Explanation = explanation
		}
	}

	return vr, nil
}

// VerifyText extracts claims from assistant text and verifies each one
// against the workspace
func (p *Pipeline) VerifyText(ctx context.Context, text string, conversationID string) (*TextReport, error) {
	claims := p.extractor.Extract(text, conversationID)

	report := &TextReport{
		ConversationID: conversationID,
		GeneratedAt:    time.Now().UTC(),
		ClaimCount:     len(claims),
		Results:        make([]*VerifyResult, 0, len(claims)),
	}

	if len(claims) == 0 {
		return report, nil
	}

	files, err := p.supplier.Collect()
	if err != nil {
		return nil, fmt.Errorf("collect workspace: %w", err)
	}

	for _, claim := range claims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vr, err := p.VerifyClaim(ctx, claim, files)
		if err != nil {
			return nil, fmt.Errorf("verify claim %s: %w", claim.ID, err)
		}
		if vr.Result.IsLie {
			report.LieCount++
		}
		report.Results = append(report.Results, vr)
	}

	return report, nil
}

// VerifyTranscript reads assistant text from a file and verifies it. The
// conversation ID is derived from the file name.
func (p *Pipeline) VerifyTranscript(ctx context.Context, path string) (*TextReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	base := filepath.Base(path)
	conversationID := strings.TrimSuffix(base, filepath.Ext(base))

	return p.VerifyText(ctx, string(data), conversationID)
}

// CollectFiles loads specific workspace files for a scoped verification.
// An empty path list returns nil so callers fall back to a full collect.
func (p *Pipeline) CollectFiles(paths []string) ([]model.FileContent, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	return p.supplier.CollectPaths(paths)
}

// ExtractClaims extracts claims without verifying them
func (p *Pipeline) ExtractClaims(text string, conversationID string) []model.Claim {
	return p.extractor.Extract(text, conversationID)
}

// History returns past verification records for a conversation
func (p *Pipeline) History(conversationID string, limit int) ([]store.Record, error) {
	if p.store == nil {
		return nil, fmt.Errorf("persistence is disabled")
	}
	return p.store.History(conversationID, limit)
}

// Totals returns aggregate store statistics
func (p *Pipeline) Totals() (store.Stats, error) {
	if p.store == nil {
		return store.Stats{}, fmt.Errorf("persistence is disabled")
	}
	return p.store.Totals()
}

// Close releases pipeline resources
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}
