package llm

import (
	"testing"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

func TestNewExplainer_Disabled(t *testing.T) {
	e, err := NewExplainer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != nil {
		t.Error("disabled config must yield a nil explainer")
	}
	if e.IsEnabled() {
		t.Error("nil explainer must report disabled")
	}
}

func TestExplainer_IsEnabled(t *testing.T) {
	e, err := NewExplainer(Config{Provider: "ollama", Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsEnabled() {
		t.Error("configured explainer should report enabled")
	}
}

func TestAllowedFilesFromEvidence(t *testing.T) {
	evidence := []model.Evidence{
		{File: "src/a.js"},
		{File: "src/b.js"},
		{File: "src/a.js"},
		{File: ""},
		{File: "src/c.css"},
	}

	files := allowedFilesFromEvidence(evidence)

	want := []string{"src/a.js", "src/b.js", "src/c.css"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i, f := range files {
		if f != want[i] {
			t.Errorf("file %d: got %q, want %q", i, f, want[i])
		}
	}
}
