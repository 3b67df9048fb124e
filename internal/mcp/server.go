package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JoodasCode/SlopWatch-sub001/internal/extract"
	"github.com/JoodasCode/SlopWatch-sub001/internal/logging"
	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
	"github.com/JoodasCode/SlopWatch-sub001/internal/worker"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "slopwatch"

// Server wraps the MCP SDK server and exposes the verification tools.
type Server struct {
	MCPServer *sdkmcp.Server

	pipeline *pipeline.Pipeline
	limiter  *worker.Limiter
	version  string
	log      *slog.Logger
}

// NewServer creates an MCP server backed by a verification pipeline.
func NewServer(cfg *model.Config, version string) (*Server, error) {
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	s := &Server{
		pipeline: p,
		limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		version:  version,
		log:      logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: serverName, Version: version},
		nil,
	)
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "verify_claim",
		Description: "Verify a claim an AI assistant made about code changes against the actual workspace files. Returns a VERIFIED or LIE verdict with evidence.",
	}, s.handleVerifyClaim)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "extract_claims",
		Description: "Extract verifiable claims from assistant text without running verification. Returns the structured claims with extraction confidence.",
	}, s.handleExtractClaims)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "verify_text",
		Description: "Extract every claim from assistant text and verify each one against the workspace. Returns a per-claim verdict report.",
	}, s.handleVerifyText)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_history",
		Description: "Get past verification results for a conversation, newest first.",
	}, s.handleGetHistory)
}

// --- Tool input/output types ---

type verifyClaimInput struct {
	Claim          string   `json:"claim" jsonschema:"the claim text to verify"`
	ConversationID string   `json:"conversation_id,omitempty" jsonschema:"conversation the claim belongs to"`
	Files          []string `json:"files,omitempty" jsonschema:"restrict verification to these workspace paths"`
}

type verifyClaimOutput struct {
	Verdict     string                  `json:"verdict"`
	IsLie       bool                    `json:"is_lie"`
	Confidence  float64                 `json:"confidence"`
	Summary     string                  `json:"summary"`
	Evidence    []model.Evidence        `json:"evidence"`
	Patterns    []model.DetectedPattern `json:"detected_patterns"`
	Explanation string                  `json:"explanation,omitempty"`
}

type extractClaimsInput struct {
	Text           string `json:"text" jsonschema:"assistant text to extract claims from"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation the text belongs to"`
}

type extractClaimsOutput struct {
	Claims []model.Claim `json:"claims"`
	Count  int           `json:"count"`
}

type verifyTextInput struct {
	Text           string `json:"text" jsonschema:"assistant text to extract and verify claims from"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation the text belongs to"`
}

type verifyTextOutput struct {
	ClaimCount int                `json:"claim_count"`
	LieCount   int                `json:"lie_count"`
	Results    []verifyTextResult `json:"results"`
}

type verifyTextResult struct {
	Claim      model.Claim `json:"claim"`
	Verdict    string      `json:"verdict"`
	IsLie      bool        `json:"is_lie"`
	Confidence float64     `json:"confidence"`
	Summary    string      `json:"summary"`
}

type getHistoryInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to fetch history for (empty = all)"`
	Limit          int    `json:"limit,omitempty" jsonschema:"max records to return (default 20)"`
}

type historyEntry struct {
	ClaimID    string    `json:"claim_id"`
	Claim      string    `json:"claim"`
	Verdict    string    `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

type getHistoryOutput struct {
	Records []historyEntry `json:"records"`
	Total   int            `json:"total"`
}

// --- Tool handlers ---

func (s *Server) handleVerifyClaim(ctx context.Context, _ *sdkmcp.CallToolRequest, input verifyClaimInput) (*sdkmcp.CallToolResult, verifyClaimOutput, error) {
	if strings.TrimSpace(input.Claim) == "" {
		return nil, verifyClaimOutput{}, fmt.Errorf("claim is required")
	}
	if err := s.checkLimit(input.ConversationID); err != nil {
		return nil, verifyClaimOutput{}, err
	}

	claim := extract.NewManualClaim(input.Claim, input.ConversationID, nil)

	files, err := s.pipeline.CollectFiles(input.Files)
	if err != nil {
		return nil, verifyClaimOutput{}, fmt.Errorf("collect files: %w", err)
	}

	vr, err := s.pipeline.VerifyClaim(ctx, claim, files)
	if err != nil {
		return nil, verifyClaimOutput{}, fmt.Errorf("verify_claim: %w", err)
	}

	s.log.Info("claim verified",
		"claim_id", claim.ID,
		"is_lie", vr.Result.IsLie,
		"confidence", vr.Result.Confidence)

	out := verifyClaimOutput{
		Verdict:    verdict(vr.Result.IsLie),
		IsLie:      vr.Result.IsLie,
		Confidence: vr.Result.Confidence,
		Summary:    vr.Result.Summary,
		Evidence:   vr.Result.Evidence,
		Patterns:   vr.Result.DetectedPatterns,
	}
	if vr.Explanation != nil {
		out.Explanation = vr.Explanation.Text
	}
	return nil, out, nil
}

func (s *Server) handleExtractClaims(ctx context.Context, _ *sdkmcp.CallToolRequest, input extractClaimsInput) (*sdkmcp.CallToolResult, extractClaimsOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, extractClaimsOutput{}, fmt.Errorf("text is required")
	}
	if err := s.checkLimit(input.ConversationID); err != nil {
		return nil, extractClaimsOutput{}, err
	}

	claims := s.pipeline.ExtractClaims(input.Text, input.ConversationID)
	return nil, extractClaimsOutput{
		Claims: claims,
		Count:  len(claims),
	}, nil
}

func (s *Server) handleVerifyText(ctx context.Context, _ *sdkmcp.CallToolRequest, input verifyTextInput) (*sdkmcp.CallToolResult, verifyTextOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, verifyTextOutput{}, fmt.Errorf("text is required")
	}
	if err := s.checkLimit(input.ConversationID); err != nil {
		return nil, verifyTextOutput{}, err
	}

	report, err := s.pipeline.VerifyText(ctx, input.Text, input.ConversationID)
	if err != nil {
		return nil, verifyTextOutput{}, fmt.Errorf("verify_text: %w", err)
	}

	out := verifyTextOutput{
		ClaimCount: report.ClaimCount,
		LieCount:   report.LieCount,
		Results:    make([]verifyTextResult, 0, len(report.Results)),
	}
	for _, vr := range report.Results {
		out.Results = append(out.Results, verifyTextResult{
			Claim:      vr.Claim,
			Verdict:    verdict(vr.Result.IsLie),
			IsLie:      vr.Result.IsLie,
			Confidence: vr.Result.Confidence,
			Summary:    vr.Result.Summary,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, input getHistoryInput) (*sdkmcp.CallToolResult, getHistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	records, err := s.pipeline.History(input.ConversationID, limit)
	if err != nil {
		return nil, getHistoryOutput{}, fmt.Errorf("get_history: %w", err)
	}

	out := getHistoryOutput{
		Records: make([]historyEntry, 0, len(records)),
		Total:   len(records),
	}
	for _, rec := range records {
		out.Records = append(out.Records, historyEntry{
			ClaimID:    rec.Claim.ID,
			Claim:      rec.Claim.Text,
			Verdict:    verdict(rec.Result.IsLie),
			Confidence: rec.Result.Confidence,
			Summary:    rec.Result.Summary,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return nil, out, nil
}

func (s *Server) checkLimit(conversationID string) error {
	if s.limiter.Allow(conversationID) {
		return nil
	}
	return fmt.Errorf("rate limit exceeded for conversation %q, retry shortly", conversationID)
}

func verdict(isLie bool) string {
	if isLie {
		return "LIE"
	}
	return "VERIFIED"
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// Shutdown releases pipeline resources.
func (s *Server) Shutdown() error {
	return s.pipeline.Close()
}
