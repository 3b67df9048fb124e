package llm

import (
	"strings"
	"testing"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != nil {
		t.Error("empty provider name must disable the explainer")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "grok"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewProvider_KnownProviders(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("openai without API key should fail")
	}
	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("anthropic without API key should fail")
	}

	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("ollama needs no API key: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("unexpected provider name %q", p.Name())
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("provider name should be case-insensitive: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("unexpected provider name %q", p.Name())
	}

	p, err = NewProvider(Config{Provider: "claude", APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("claude alias should resolve: %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("unexpected provider name %q", p.Name())
	}
}

func TestConfigFromModel(t *testing.T) {
	mc := model.LLMConfig{
		Provider:       "ollama",
		Model:          "llama3.1:8b",
		BaseURL:        "http://localhost:11434",
		Timeout:        45,
		MaxTokens:      700,
		StrictEvidence: true,
	}

	cfg := ConfigFromModel(mc)
	if cfg.Provider != "ollama" || cfg.Model != "llama3.1:8b" {
		t.Errorf("provider/model not mapped: %+v", cfg)
	}
	if cfg.Timeout != 45 || cfg.MaxTokens != 700 {
		t.Errorf("limits not mapped: %+v", cfg)
	}
	if !cfg.StrictEvidence {
		t.Error("strict evidence flag not mapped")
	}
}
