package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
)

// Verifier defines the interface for verifying a single transcript file
type Verifier interface {
	VerifyTranscript(ctx context.Context, path string) (*pipeline.TextReport, error)
}

// VerifyJob represents a transcript verification job
type VerifyJob struct {
	Path     string
	Verifier Verifier
}

// Execute executes the verification job
func (j *VerifyJob) Execute(ctx context.Context) Result {
	report, err := j.Verifier.VerifyTranscript(ctx, j.Path)
	return &VerifyOutcome{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// VerifyOutcome represents the result of a verification job
type VerifyOutcome struct {
	Path   string
	Report *pipeline.TextReport
	Error  error
}

// GetError returns the error from the verification outcome
func (r *VerifyOutcome) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple transcript files concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessPaths verifies multiple transcript files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*VerifyOutcome {
	if len(paths) == 0 {
		return []*VerifyOutcome{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so Wait can drain results while
	// jobs are still queueing. On cancellation the remaining paths are
	// skipped and partial outcomes are returned.
	go func() {
		for _, path := range paths {
			if ctx.Err() != nil {
				break
			}
			pool.Submit(&VerifyJob{
				Path:     path,
				Verifier: b.verifier,
			})
		}
		pool.Done()
	}()

	results := pool.Wait()

	outcomes := make([]*VerifyOutcome, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, result.(*VerifyOutcome))
	}

	return outcomes
}

// ProcessList reads transcript paths from a list file and verifies them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*VerifyOutcome, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
