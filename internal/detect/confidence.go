package detect

import "math"

// neutralConfidence is returned when a file offers no signal either way
const neutralConfidence = 0.5

// patternConfidence is the four-way decision table over
// (has matches, claim expects pattern):
//
//	yes/yes: more matches reinforce truthfulness, capped at 1.0
//	no/yes:  stronger expectation with no evidence drives toward 0
//	yes/no:  unexpected but present evidence, mildly positive
//	no/no:   absence of something never claimed is uninformative
func patternConfidence(matchCount int, expected bool, strength float64) float64 {
	switch {
	case matchCount > 0 && expected:
		return math.Min(0.8+0.05*float64(matchCount), 1.0)
	case matchCount == 0 && expected:
		return math.Max(0.2-0.3*strength, 0)
	case matchCount > 0:
		return 0.6
	default:
		return neutralConfidence
	}
}

// weightedConfidence pairs one pattern's confidence with its weight
type weightedConfidence struct {
	confidence float64
	weight     float64
}

// fileConfidence is the weight-normalized average over all patterns
// considered for one file. No considered patterns means insufficient
// signal, not evidence of falsehood.
func fileConfidence(scores []weightedConfidence) float64 {
	var sum, weights float64
	for _, s := range scores {
		sum += s.confidence * s.weight
		weights += s.weight
	}

	if weights == 0 {
		return neutralConfidence
	}
	return sum / weights
}

// meanConfidence averages per-file confidences and clamps to [0,1]
func meanConfidence(confidences []float64) float64 {
	if len(confidences) == 0 {
		return neutralConfidence
	}

	var sum float64
	for _, c := range confidences {
		sum += c
	}
	mean := sum / float64(len(confidences))

	if mean < 0 {
		return 0
	}
	if mean > 1 {
		return 1
	}
	return mean
}
