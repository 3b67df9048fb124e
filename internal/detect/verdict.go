package detect

import (
	"fmt"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Verdict thresholds. Rule one catches claims where contradicting evidence
// dominates and confidence is already weak; rule two catches a single
// strong contradiction even when supporting noise exists. Rule order
// matters and must not change.
const (
	dominatedLieThreshold    = 0.4
	contradictedLieThreshold = 0.3
)

// decideVerdict applies the fixed rule set over aggregated evidence
func decideVerdict(confidence float64, evidence []model.Evidence) bool {
	var supporting, contradicting int
	for _, e := range evidence {
		switch e.Category {
		case model.EvidenceSupporting:
			supporting++
		case model.EvidenceContradicting:
			contradicting++
		}
	}

	if contradicting > supporting && confidence < dominatedLieThreshold {
		return true
	}
	if contradicting > 0 && confidence < contradictedLieThreshold {
		return true
	}
	return false
}

// buildSummary produces the natural-language summary for a completed
// evaluation
func buildSummary(claim model.Claim, isLie bool, confidence float64, evidence []model.Evidence, fileCount int) string {
	var supporting, contradicting int
	for _, e := range evidence {
		switch e.Category {
		case model.EvidenceSupporting:
			supporting++
		case model.EvidenceContradicting:
			contradicting++
		}
	}

	if isLie {
		return fmt.Sprintf(
			"Claim %q is contradicted by the files: %d contradicting vs %d supporting finding(s) across %d file(s), confidence %.2f",
			claim.Text, contradicting, supporting, fileCount, confidence)
	}

	return fmt.Sprintf(
		"Claim %q is consistent with the files: %d supporting and %d contradicting finding(s) across %d file(s), confidence %.2f",
		claim.Text, supporting, contradicting, fileCount, confidence)
}

// notApplicableSummary explains the neutral short-circuit result
func notApplicableSummary(kind model.ContentKind) string {
	return fmt.Sprintf("no %s files were found to verify this claim; analysis not applicable", kind)
}
