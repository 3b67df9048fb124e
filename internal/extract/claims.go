package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// minFragmentLen is the shortest trimmed fragment that can carry a
// verifiable assertion.
const minFragmentLen = 10

// Extraction confidence bounds: never fully certain, never fully baseless.
const (
	baseConfidence = 0.7
	minConfidence  = 0.3
	maxConfidence  = 0.95
)

// claimShape is one row of the ordered claim-shape table. The first row
// whose pattern matches a fragment wins; later, possibly more specific rows
// are never consulted for that fragment.
type claimShape struct {
	pattern *regexp.Regexp
	kind    model.ContentKind
	action  string
	target  string
}

// claimShapes is scanned in order, first-match-wins per fragment.
var claimShapes = []claimShape{
	{regexp.MustCompile(`(?i)\b(added|implemented|created|introduced)\b.*\berror handling\b`), model.KindCode, "added", "error handling"},
	{regexp.MustCompile(`(?i)\b(added|implemented|wrote)\b.*\btests?\b`), model.KindCode, "added", "tests"},
	{regexp.MustCompile(`(?i)\b(added|implemented)\b.*\b(input )?validation\b`), model.KindCode, "added", "validation"},
	{regexp.MustCompile(`(?i)\b(added|implemented|converted)\b.*\b(async|await|promises?)\b`), model.KindCode, "added", "async code"},
	{regexp.MustCompile(`(?i)\b(added|implemented)\b.*\b(logging|log statements?)\b`), model.KindCode, "added", "logging"},
	{regexp.MustCompile(`(?i)\b(added|implemented|annotated)\b.*\btype(s| annotations| definitions)?\b`), model.KindCode, "added", "types"},
	{regexp.MustCompile(`(?i)\b(added|implemented)\b.*\bnull (checks?|safety)\b`), model.KindCode, "added", "null checks"},
	{regexp.MustCompile(`(?i)\b(fixed|resolved|corrected|patched)\b.*\b(bug|issue|error|crash|problem)\b`), model.KindCode, "fixed", "bug"},
	{regexp.MustCompile(`(?i)\b(removed|deleted|cleaned up)\b.*\b(console\.log|debug (code|statements?)|dead code)\b`), model.KindCode, "removed", "debug code"},
	{regexp.MustCompile(`(?i)\b(refactored|restructured|reorganized)\b`), model.KindCode, "refactored", "structure"},
	{regexp.MustCompile(`(?i)\b(improved|optimized|sped up)\b.*\bperformance\b`), model.KindCode, "optimized", "performance"},
	{regexp.MustCompile(`(?i)\b(made|updated)\b.*\bresponsive\b|\bmedia quer(y|ies)\b`), model.KindStylesheet, "added", "responsive design"},
	{regexp.MustCompile(`(?i)\b(added|used|switched to)\b.*\b(flexbox|css grid)\b`), model.KindStylesheet, "added", "layout"},
	{regexp.MustCompile(`(?i)\b(added|created)\b.*\b(animations?|transitions?)\b`), model.KindStylesheet, "added", "animations"},
	{regexp.MustCompile(`(?i)\b(updated|changed|adjusted|tweaked)\b.*\b(styles?|styling|css|colors?|theme)\b`), model.KindStylesheet, "updated", "styles"},
	{regexp.MustCompile(`(?i)\b(added|improved)\b.*\b(accessibility|aria|alt text)\b`), model.KindMarkup, "added", "accessibility"},
	{regexp.MustCompile(`(?i)\b(added|updated|built)\b.*\b(forms?|inputs?|buttons?)\b`), model.KindMarkup, "updated", "forms"},
	{regexp.MustCompile(`(?i)\b(added|used)\b.*\bsemantic\b.*\b(html|elements?|tags?)\b`), model.KindMarkup, "added", "semantic markup"},
	{regexp.MustCompile(`(?i)\b(updated|changed|restructured)\b.*\b(html|markup|template)\b`), model.KindMarkup, "updated", "markup"},
}

// technicalTerms each add +0.05 to extraction confidence when present
// (distinct, case-insensitive).
var technicalTerms = []string{
	"function", "variable", "component", "api", "endpoint", "database",
	"error", "exception", "async", "await", "promise", "callback",
	"interface", "class", "module", "import", "test", "validation",
	"regex", "query", "cache", "middleware", "handler", "selector",
}

// vagueTerms each subtract 0.1; hedging language weakens a claim.
var vagueTerms = []string{
	"might", "maybe", "probably", "should", "perhaps", "possibly",
	"somewhat", "kind of", "sort of", "i think", "i believe", "hopefully",
}

// actionVerbs in past tense grant a flat +0.1 bonus once.
var actionVerbs = []string{
	"added", "fixed", "updated", "removed", "implemented", "refactored",
	"improved", "created", "changed", "optimized", "resolved", "converted",
}

// Terminal punctuation only counts when followed by whitespace or end of
// input, so dotted identifiers (console.log) and filenames (app.js) stay
// inside one fragment.
var sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)`)

// ClaimExtractor turns free-form assistant text into structured claims
type ClaimExtractor struct{}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// Extract splits text into sentence fragments and emits one claim per
// fragment that matches a claim shape. Malformed or empty input degrades to
// zero claims, never an error.
func (e *ClaimExtractor) Extract(text string, conversationID string) []model.Claim {
	var claims []model.Claim

	for _, fragment := range splitFragments(text) {
		shape, ok := matchShape(fragment)
		if !ok {
			continue
		}

		claims = append(claims, model.Claim{
			ID:             uuid.NewString(),
			Text:           fragment,
			ContentKind:    shape.kind,
			Action:         shape.action,
			Target:         shape.target,
			Confidence:     scoreFragment(fragment),
			Timestamp:      time.Now().UTC(),
			ConversationID: conversationID,
		})
	}

	return claims
}

// NewManualClaim builds a claim from caller-supplied text, re-running the
// extraction heuristic to backfill kind, action, target and confidence.
// When no shape matches, the claim falls back to a generic code
// classification with neutral confidence.
func NewManualClaim(text string, conversationID string, metadata map[string]string) model.Claim {
	claim := model.Claim{
		ID:             uuid.NewString(),
		Text:           strings.TrimSpace(text),
		ContentKind:    model.KindCode,
		Action:         "modified",
		Target:         "code",
		Confidence:     0.5,
		Timestamp:      time.Now().UTC(),
		ConversationID: conversationID,
		Metadata:       metadata,
	}

	if shape, ok := matchShape(claim.Text); ok {
		claim.ContentKind = shape.kind
		claim.Action = shape.action
		claim.Target = shape.target
		claim.Confidence = scoreFragment(claim.Text)
	}

	return claim
}

// splitFragments splits text on sentence-terminal punctuation and discards
// fragments too short to carry an assertion.
func splitFragments(text string) []string {
	var fragments []string
	for _, raw := range sentenceSplit.Split(text, -1) {
		fragment := strings.TrimSpace(raw)
		if len(fragment) <= minFragmentLen {
			continue
		}
		fragments = append(fragments, fragment)
	}
	return fragments
}

// matchShape returns the first claim shape whose pattern matches the
// fragment. First-match-wins: a fragment never yields more than one claim.
func matchShape(fragment string) (claimShape, bool) {
	for _, shape := range claimShapes {
		if shape.pattern.MatchString(fragment) {
			return shape, true
		}
	}
	return claimShape{}, false
}

// scoreFragment computes extraction confidence for a fragment
func scoreFragment(fragment string) float64 {
	lower := strings.ToLower(fragment)
	confidence := baseConfidence

	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			confidence += 0.05
		}
	}

	for _, term := range vagueTerms {
		if strings.Contains(lower, term) {
			confidence -= 0.1
		}
	}

	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			confidence += 0.1
			break
		}
	}

	return model.Clamp(confidence, minConfidence, maxConfidence)
}
