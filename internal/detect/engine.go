package detect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Engine scores a claim against a batch of file contents and decides
// truthfulness. It holds only the immutable analyzer set, so every call is
// independently reproducible given the same (claim, files) input.
type Engine struct {
	analyzers map[model.ContentKind]Analyzer
	log       *slog.Logger // optional; nil disables reporting
}

// NewEngine creates an engine with the built-in per-kind analyzers.
// The logger may be nil; the engine never reaches for ambient global state.
func NewEngine(log *slog.Logger) *Engine {
	e := &Engine{
		analyzers: make(map[model.ContentKind]Analyzer),
		log:       log,
	}
	e.Register(codeAnalyzer{})
	e.Register(stylesheetAnalyzer{})
	e.Register(markupAnalyzer{})
	return e
}

// Register adds or replaces the analyzer for a content kind
func (e *Engine) Register(a Analyzer) {
	e.analyzers[a.Kind()] = a
}

// Analyze evaluates a single claim against the candidate files and always
// returns a well-formed result. Files whose kind differs from the claim's
// are excluded from both scoring and evidence. One file's failure never
// aborts the evaluation.
func (e *Engine) Analyze(claim model.Claim, files []model.FileContent) model.AnalysisResult {
	var candidates []model.FileContent
	for _, f := range files {
		if f.ContentKind == claim.ContentKind {
			candidates = append(candidates, f)
		}
	}

	// Non-applicability guard: absence of applicable files must not read
	// as a lie.
	if len(candidates) == 0 {
		return model.AnalysisResult{
			IsLie:            false,
			Confidence:       0,
			Evidence:         []model.Evidence{},
			Summary:          notApplicableSummary(claim.ContentKind),
			DetectedPatterns: []model.DetectedPattern{},
		}
	}

	analyzer, ok := e.analyzers[claim.ContentKind]
	if !ok {
		return model.AnalysisResult{
			IsLie:            false,
			Confidence:       0,
			Evidence:         []model.Evidence{},
			Summary:          notApplicableSummary(claim.ContentKind),
			DetectedPatterns: []model.DetectedPattern{},
		}
	}

	evidence := []model.Evidence{}
	detected := []model.DetectedPattern{}
	var fileConfidences []float64

	for _, file := range candidates {
		patterns, fileEvidence, confidence, err := e.analyzeFile(analyzer, claim, file)
		if err != nil {
			evidence = append(evidence, analysisErrorEvidence(file.Path, err))
			if e.log != nil {
				e.log.Warn("file analysis failed", "file", file.Path, "error", err)
			}
			continue
		}

		detected = append(detected, patterns...)
		evidence = append(evidence, fileEvidence...)
		fileConfidences = append(fileConfidences, confidence)
	}

	confidence := meanConfidence(fileConfidences)
	isLie := decideVerdict(confidence, evidence)

	if e.log != nil {
		e.log.Debug("claim analyzed",
			"claim_id", claim.ID,
			"files", len(candidates),
			"confidence", confidence,
			"is_lie", isLie)
	}

	return model.AnalysisResult{
		IsLie:            isLie,
		Confidence:       model.Clamp(confidence, 0, 1),
		Evidence:         evidence,
		Summary:          buildSummary(claim, isLie, confidence, evidence, len(candidates)),
		DetectedPatterns: detected,
	}
}

// analyzeFile runs every relevant pattern of the analyzer against one
// file's text. A pattern with zero matches is still recorded when the claim
// expects it, so "no evidence found" surfaces as a data point rather than
// being silently dropped. Panics are recovered into the error return so the
// caller can degrade to analysis_error evidence.
func (e *Engine) analyzeFile(a Analyzer, claim model.Claim, file model.FileContent) (detected []model.DetectedPattern, evidence []model.Evidence, confidence float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			detected, evidence = nil, nil
			err = fmt.Errorf("analyze %s: %v", file.Path, r)
		}
	}()

	claimLower := strings.ToLower(claim.Text)
	var scores []weightedConfidence

	for _, p := range a.Patterns() {
		// Relevance and expectation use the identical predicate.
		if !a.Relevant(p, claimLower) {
			continue
		}

		matches := p.Expression.FindAllString(file.Text, -1)
		strength := expectationStrength(p.Category, claimLower)
		patternConf := a.PatternConfidence(len(matches), true, strength)

		detected = append(detected, model.DetectedPattern{
			PatternName: p.Name,
			Matches:     matches,
			Confidence:  model.Clamp(patternConf, 0, 1),
		})
		scores = append(scores, weightedConfidence{confidence: patternConf, weight: p.Weight})

		if len(matches) > 0 {
			evidence = append(evidence, supportingEvidence(file.Path, p, len(matches)))
		} else {
			evidence = append(evidence, contradictingEvidence(file.Path, p, claim.Text))
		}
	}

	return detected, evidence, fileConfidence(scores), nil
}
