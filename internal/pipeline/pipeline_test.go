package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "uploader.js"),
		[]byte("try {\n  upload();\n} catch (err) {\n  report(err);\n}\n"),
		0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "style.css"),
		[]byte("@media (max-width: 600px) { .nav { display: none } }\n"),
		0o644))

	cfg := model.DefaultConfig()
	cfg.Workspace.Root = root
	cfg.Store.Path = filepath.Join(t.TempDir(), "slopwatch.db")
	return cfg
}

func newTestPipeline(t *testing.T, cfg *model.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestVerifyText(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	report, err := p.VerifyText(context.Background(),
		"I added error handling to the uploader. Also made the nav responsive.", "conv-1")
	require.NoError(t, err)

	assert.Equal(t, "conv-1", report.ConversationID)
	assert.Equal(t, 2, report.ClaimCount)
	assert.Equal(t, 0, report.LieCount)
	require.Len(t, report.Results, 2)

	for _, vr := range report.Results {
		assert.False(t, vr.Result.IsLie, vr.Result.Summary)
		assert.Nil(t, vr.Explanation, "explainer is disabled by default")
	}
}

func TestVerifyText_FlagsLies(t *testing.T) {
	cfg := testConfig(t)
	p := newTestPipeline(t, cfg)

	// The workspace has no test files at all; the claim is false.
	report, err := p.VerifyText(context.Background(), "I wrote tests for the uploader module.", "conv-2")
	require.NoError(t, err)

	require.Equal(t, 1, report.ClaimCount)
	assert.Equal(t, 1, report.LieCount)
	assert.True(t, report.Results[0].Result.IsLie, report.Results[0].Result.Summary)
}

func TestVerifyText_NoClaims(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	report, err := p.VerifyText(context.Background(), "sounds good, let me know if anything breaks", "conv-3")
	require.NoError(t, err)
	assert.Zero(t, report.ClaimCount)
	assert.Empty(t, report.Results)
}

func TestVerifyClaim_PersistsHistory(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	_, err := p.VerifyText(context.Background(), "I added error handling to the uploader.", "conv-h")
	require.NoError(t, err)

	records, err := p.History("conv-h", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "conv-h", records[0].Claim.ConversationID)

	stats, err := p.Totals()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Claims)
	assert.Equal(t, 1, stats.Analyses)
}

func TestVerifyTranscript(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	transcript := filepath.Join(t.TempDir(), "session-42.txt")
	require.NoError(t, os.WriteFile(transcript,
		[]byte("I added error handling to the uploader."), 0o644))

	report, err := p.VerifyTranscript(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "session-42", report.ConversationID)
	assert.Equal(t, 1, report.ClaimCount)
}

func TestVerifyTranscript_Missing(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	_, err := p.VerifyTranscript(context.Background(), "no/such/transcript.txt")
	assert.Error(t, err)
}

func TestCollectFiles(t *testing.T) {
	cfg := testConfig(t)
	p := newTestPipeline(t, cfg)

	files, err := p.CollectFiles(nil)
	require.NoError(t, err)
	assert.Nil(t, files, "empty path list defers to a full collect")

	files, err = p.CollectFiles([]string{filepath.Join(cfg.Workspace.Root, "style.css")})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, model.KindStylesheet, files[0].ContentKind)
}

func TestHistory_DisabledStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = false
	p := newTestPipeline(t, cfg)

	_, err := p.History("conv", 5)
	assert.Error(t, err)
}

func TestRenderJSONAndMarkdown(t *testing.T) {
	p := newTestPipeline(t, testConfig(t))

	report, err := p.VerifyText(context.Background(), "I added error handling to the uploader.", "conv-r")
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	renderer := NewRenderer(true)
	require.NoError(t, renderer.RenderJSON(report, jsonPath))
	require.NoError(t, renderer.RenderMarkdown(report, mdPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded TextReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ClaimCount, decoded.ClaimCount)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Verification Report")
	assert.Contains(t, string(md), "VERIFIED")
	assert.Contains(t, string(md), "Generated by slopwatch")
}
