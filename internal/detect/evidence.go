package detect

import (
	"fmt"
	"strings"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// strongSeverityTerms denote correctness-critical concerns: a missing
// expected pattern touching these escalates to high severity.
var strongSeverityTerms = []string{
	"error", "exception", "security", "crash", "fail",
	"null", "undefined", "valid", "auth",
}

// mediumSeverityTerms denote performance concerns
var mediumSeverityTerms = []string{
	"performance", "optimiz", "memory", "speed", "cache", "slow",
}

// supportingEvidence describes matches found for a pattern in a file
func supportingEvidence(file string, p PatternDefinition, matchCount int) model.Evidence {
	return model.Evidence{
		File:        file,
		Description: fmt.Sprintf("found %d match(es) for pattern %q", matchCount, p.Name),
		Severity:    model.SeverityLow,
		Category:    model.EvidenceSupporting,
	}
}

// contradictingEvidence records the significant absence of an expected
// pattern. Severity comes from a fixed keyword scan over the claim text and
// the pattern name.
func contradictingEvidence(file string, p PatternDefinition, claimText string) model.Evidence {
	return model.Evidence{
		File:        file,
		Description: fmt.Sprintf("no matches for expected pattern %q", p.Name),
		Severity:    absenceSeverity(claimText, p.Name),
		Category:    model.EvidenceContradicting,
	}
}

// analysisErrorEvidence records a per-file failure without aborting the
// claim evaluation
func analysisErrorEvidence(file string, err error) model.Evidence {
	return model.Evidence{
		File:        file,
		Description: fmt.Sprintf("analysis failed: %v", err),
		Severity:    model.SeverityLow,
		Category:    model.EvidenceAnalysisError,
	}
}

// absenceSeverity scans the claim text and pattern name against the fixed
// severity vocabularies
func absenceSeverity(claimText, patternName string) model.Severity {
	haystack := strings.ToLower(claimText) + " " + strings.ToLower(patternName)

	for _, term := range strongSeverityTerms {
		if strings.Contains(haystack, term) {
			return model.SeverityHigh
		}
	}
	for _, term := range mediumSeverityTerms {
		if strings.Contains(haystack, term) {
			return model.SeverityMedium
		}
	}
	return model.SeverityLow
}
