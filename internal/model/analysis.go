package model

// DetectedPattern records the matches one pattern produced against one file
type DetectedPattern struct {
	PatternName string   `json:"pattern_name"`
	Matches     []string `json:"matches,omitempty"` // Literal matched substrings, in file order
	Confidence  float64  `json:"confidence"`        // Per-pattern confidence [0,1]
}

// EvidenceCategory classifies an evidence item
type EvidenceCategory string

const (
	EvidenceSupporting    EvidenceCategory = "supporting_evidence"
	EvidenceContradicting EvidenceCategory = "contradicting_evidence"
	EvidenceAnalysisError EvidenceCategory = "analysis_error"
)

// Severity indicates how much weight an evidence item carries
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Evidence is one observation produced while checking a claim against a file
type Evidence struct {
	File        string           `json:"file"`
	Description string           `json:"description"`
	Severity    Severity         `json:"severity"`
	Category    EvidenceCategory `json:"category"`
}

// AnalysisResult is the sole output of one verification call.
// Evidence ordering follows file-then-pattern iteration order and is never
// re-sorted by severity or category.
type AnalysisResult struct {
	IsLie            bool              `json:"is_lie"`
	Confidence       float64           `json:"confidence"` // Always clamped to [0,1]
	Evidence         []Evidence        `json:"evidence"`
	Summary          string            `json:"summary"`
	DetectedPatterns []DetectedPattern `json:"detected_patterns"`
}

// CountEvidence returns the number of evidence items in the given category
func (r *AnalysisResult) CountEvidence(category EvidenceCategory) int {
	count := 0
	for _, e := range r.Evidence {
		if e.Category == category {
			count++
		}
	}
	return count
}

// Clamp constrains v to the closed interval [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
