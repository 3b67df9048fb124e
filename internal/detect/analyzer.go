package detect

import (
	"strings"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Analyzer is the per-content-kind capability. Each variant supplies its
// pattern table; the relevance predicate and the confidence table are
// provided once by baseAnalyzer and shared across all variants.
type Analyzer interface {
	// Kind returns the content kind this analyzer handles
	Kind() model.ContentKind

	// Patterns returns the static pattern table for this kind
	Patterns() []PatternDefinition

	// Relevant reports whether a pattern bears on the claim text. The
	// identical predicate decides whether the claim expects the pattern.
	Relevant(p PatternDefinition, claimLower string) bool

	// PatternConfidence scores one (pattern, file) pair from its match
	// count and the claim's expectation
	PatternConfidence(matchCount int, expected bool, strength float64) float64
}

// baseAnalyzer carries the shared decision points
type baseAnalyzer struct{}

// Relevant is true iff at least one keyword derived from the pattern's
// category appears as a substring of the lowercased claim text.
func (baseAnalyzer) Relevant(p PatternDefinition, claimLower string) bool {
	for _, kw := range categoryKeywords(p.Category) {
		if strings.Contains(claimLower, kw) {
			return true
		}
	}
	return false
}

// PatternConfidence applies the shared four-way confidence table
func (baseAnalyzer) PatternConfidence(matchCount int, expected bool, strength float64) float64 {
	return patternConfidence(matchCount, expected, strength)
}

type codeAnalyzer struct{ baseAnalyzer }

func (codeAnalyzer) Kind() model.ContentKind       { return model.KindCode }
func (codeAnalyzer) Patterns() []PatternDefinition { return codePatterns }

type stylesheetAnalyzer struct{ baseAnalyzer }

func (stylesheetAnalyzer) Kind() model.ContentKind       { return model.KindStylesheet }
func (stylesheetAnalyzer) Patterns() []PatternDefinition { return stylesheetPatterns }

type markupAnalyzer struct{ baseAnalyzer }

func (markupAnalyzer) Kind() model.ContentKind       { return model.KindMarkup }
func (markupAnalyzer) Patterns() []PatternDefinition { return markupPatterns }

// categoryKeywords lowercases a category tag and splits it on separators
func categoryKeywords(category string) []string {
	return strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		switch r {
		case ' ', '_', ',', '-', '/':
			return true
		}
		return false
	})
}

// expectationStrength is the fraction of the pattern's category keywords
// literally present in the lowercased claim text
func expectationStrength(category string, claimLower string) float64 {
	keywords := categoryKeywords(category)
	if len(keywords) == 0 {
		return 0
	}

	present := 0
	for _, kw := range keywords {
		if strings.Contains(claimLower, kw) {
			present++
		}
	}
	return float64(present) / float64(len(keywords))
}
