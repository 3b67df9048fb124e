package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(
		filepath.Join(root, "client.js"),
		[]byte("try {\n  send();\n} catch (err) {\n  retry(err);\n}\n"),
		0o644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Workspace.Root = root
	cfg.Store.Path = filepath.Join(t.TempDir(), "slopwatch.db")

	s, err := NewServer(cfg, "test")
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestNewServer_Wiring(t *testing.T) {
	s := testServer(t)

	if s.MCPServer == nil {
		t.Error("MCP server not constructed")
	}
	if s.log == nil {
		t.Error("server logger not initialized")
	}
}

func TestVerifyClaim_Verified(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleVerifyClaim(context.Background(), nil, verifyClaimInput{
		Claim:          "I added error handling to the client",
		ConversationID: "conv-1",
	})
	if err != nil {
		t.Fatalf("verify_claim failed: %v", err)
	}

	if out.Verdict != "VERIFIED" || out.IsLie {
		t.Errorf("expected VERIFIED, got %s (is_lie=%v): %s", out.Verdict, out.IsLie, out.Summary)
	}
	if out.Confidence <= 0.8 {
		t.Errorf("expected strong confidence, got %v", out.Confidence)
	}
	if len(out.Evidence) == 0 {
		t.Error("expected evidence in the output")
	}
}

func TestVerifyClaim_Lie(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleVerifyClaim(context.Background(), nil, verifyClaimInput{
		Claim: "I wrote tests for the client module",
	})
	if err != nil {
		t.Fatalf("verify_claim failed: %v", err)
	}

	if out.Verdict != "LIE" || !out.IsLie {
		t.Errorf("expected LIE, got %s: %s", out.Verdict, out.Summary)
	}
}

func TestVerifyClaim_EmptyClaim(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleVerifyClaim(context.Background(), nil, verifyClaimInput{Claim: "   "})
	if err == nil {
		t.Error("expected error for empty claim")
	}
}

func TestExtractClaims(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleExtractClaims(context.Background(), nil, extractClaimsInput{
		Text:           "I added error handling to the client. Nothing else changed.",
		ConversationID: "conv-2",
	})
	if err != nil {
		t.Fatalf("extract_claims failed: %v", err)
	}

	if out.Count != 1 || len(out.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", out.Count)
	}
	if out.Claims[0].ConversationID != "conv-2" {
		t.Errorf("conversation ID not propagated: %q", out.Claims[0].ConversationID)
	}
}

func TestVerifyText(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleVerifyText(context.Background(), nil, verifyTextInput{
		Text: "I added error handling to the client. I also wrote tests for everything.",
	})
	if err != nil {
		t.Fatalf("verify_text failed: %v", err)
	}

	if out.ClaimCount != 2 {
		t.Fatalf("expected 2 claims, got %d", out.ClaimCount)
	}
	if out.LieCount != 1 {
		t.Errorf("expected 1 lie, got %d", out.LieCount)
	}
}

func TestGetHistory(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleVerifyClaim(context.Background(), nil, verifyClaimInput{
		Claim:          "I added error handling to the client",
		ConversationID: "conv-h",
	})
	if err != nil {
		t.Fatalf("verify_claim failed: %v", err)
	}

	_, out, err := s.handleGetHistory(context.Background(), nil, getHistoryInput{
		ConversationID: "conv-h",
	})
	if err != nil {
		t.Fatalf("get_history failed: %v", err)
	}

	if out.Total != 1 || len(out.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", out.Total)
	}
	if out.Records[0].Verdict != "VERIFIED" {
		t.Errorf("unexpected verdict %q", out.Records[0].Verdict)
	}
}

func TestRateLimit(t *testing.T) {
	s := testServer(t)
	s.limiter.SetConversationRate("busy", 0.001, 1)

	_, _, err := s.handleExtractClaims(context.Background(), nil, extractClaimsInput{
		Text:           "I added error handling to the client",
		ConversationID: "busy",
	})
	if err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	_, _, err = s.handleExtractClaims(context.Background(), nil, extractClaimsInput{
		Text:           "I added error handling to the client",
		ConversationID: "busy",
	})
	if err == nil {
		t.Error("second immediate call should be rate limited")
	}
}

func TestVerdictLabel(t *testing.T) {
	if verdict(true) != "LIE" || verdict(false) != "VERIFIED" {
		t.Error("verdict labels must be stable; clients key on them")
	}
}
