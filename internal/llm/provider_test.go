package llm

import (
	"strings"
	"testing"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		IsLie:      true,
		Confidence: 0.22,
		Summary:    "claim contradicted",
		Evidence: []model.Evidence{
			{File: "src/app.js", Description: "no matches for expected pattern \"error_handling\"",
				Severity: model.SeverityHigh, Category: model.EvidenceContradicting},
			{File: "src/util.js", Description: "found 2 match(es) for pattern \"functions\"",
				Severity: model.SeverityLow, Category: model.EvidenceSupporting},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	claim := model.Claim{
		Text:        "added error handling to the client",
		ContentKind: model.KindCode,
		Action:      "added",
		Target:      "error handling",
	}

	prompt := BuildPrompt(claim, sampleResult(), []string{"src/app.js", "src/util.js"})

	for _, want := range []string{
		"LIE",
		"0.22",
		"added error handling to the client",
		"src/app.js",
		"src/util.js",
		"Supporting evidence: 1",
		"Contradicting evidence: 1",
		"MUST ONLY cite files",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_VerifiedVerdict(t *testing.T) {
	result := sampleResult()
	result.IsLie = false

	prompt := BuildPrompt(model.Claim{Text: "x"}, result, nil)
	if !strings.Contains(prompt, "VERIFIED") {
		t.Error("prompt should carry the VERIFIED verdict")
	}
	if !strings.Contains(prompt, "(No files were analyzed)") {
		t.Error("empty allowlist should be stated explicitly")
	}
}

func TestBuildPrompt_EvidenceTruncation(t *testing.T) {
	result := sampleResult()
	for i := 0; i < 12; i++ {
		result.Evidence = append(result.Evidence, model.Evidence{
			File: "src/extra.js", Description: "filler", Category: model.EvidenceSupporting,
		})
	}

	prompt := BuildPrompt(model.Claim{Text: "x"}, result, nil)
	if !strings.Contains(prompt, "more evidence items") {
		t.Error("long evidence lists should be truncated with a count")
	}
}

func TestExtractFileRefs(t *testing.T) {
	text := "The check failed in src/app.js and again in src/app.js, see also styles/main.css and lib/mod.go."

	refs := extractFileRefs(text)

	want := []string{"src/app.js", "styles/main.css", "lib/mod.go"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %d: %v", len(want), len(refs), refs)
	}
	for i, r := range refs {
		if r != want[i] {
			t.Errorf("ref %d: got %q, want %q", i, r, want[i])
		}
	}
}

func TestExtractFileRefs_NoMatches(t *testing.T) {
	if refs := extractFileRefs("nothing to cite here"); len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}

func TestAllowedRef(t *testing.T) {
	allowed := []string{"src/app.js", "styles/main.css"}

	tests := []struct {
		ref  string
		want bool
	}{
		{"src/app.js", true},
		{"app.js", true},            // base name of an allowed path
		{"other/dir/app.js", true},  // same base name
		{"src/secret.js", false},
		{"main.scss", false},
	}

	for _, tt := range tests {
		if got := allowedRef(allowed, tt.ref); got != tt.want {
			t.Errorf("allowedRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestCheckCitations(t *testing.T) {
	allowed := []string{"src/app.js"}

	cited, err := checkCitations(allowed, "The pattern is missing from src/app.js entirely.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cited) != 1 || cited[0] != "src/app.js" {
		t.Errorf("unexpected citations: %v", cited)
	}
}

func TestCheckCitations_Leak(t *testing.T) {
	allowed := []string{"src/app.js"}

	_, err := checkCitations(allowed, "Compare with src/hidden.js which has the handler.")
	if err == nil {
		t.Fatal("expected a citation leak error")
	}
	if !strings.Contains(err.Error(), "CITATION LEAK") {
		t.Errorf("error should flag the leak: %v", err)
	}
	if !strings.Contains(err.Error(), "src/hidden.js") {
		t.Errorf("error should name the leaked file: %v", err)
	}
}
