package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
)

type fakeVerifier struct {
	calls atomic.Int64
}

func (f *fakeVerifier) VerifyTranscript(ctx context.Context, path string) (*pipeline.TextReport, error) {
	f.calls.Add(1)
	if strings.Contains(path, "broken") {
		return nil, errors.New("unreadable transcript")
	}
	return &pipeline.TextReport{ClaimCount: 2, LieCount: 1}, nil
}

func TestBatch_ProcessPaths(t *testing.T) {
	verifier := &fakeVerifier{}
	b := NewBatchProcessor(verifier, 3)

	outcomes := b.ProcessPaths(context.Background(), []string{"one.txt", "two.txt", "broken.txt"})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if verifier.calls.Load() != 3 {
		t.Errorf("expected 3 verifier calls, got %d", verifier.calls.Load())
	}

	failures := 0
	for _, o := range outcomes {
		if o.Error != nil {
			failures++
			continue
		}
		if o.Report == nil || o.Report.ClaimCount != 2 {
			t.Errorf("unexpected report for %s: %+v", o.Path, o.Report)
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestBatch_ManyMoreTranscriptsThanWorkers(t *testing.T) {
	verifier := &fakeVerifier{}
	b := NewBatchProcessor(verifier, 2)

	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("session-%d.txt", i)
	}

	done := make(chan []*VerifyOutcome, 1)
	go func() { done <- b.ProcessPaths(context.Background(), paths) }()

	var outcomes []*VerifyOutcome
	select {
	case outcomes = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("batch did not finish; submission backed up behind results")
	}

	if len(outcomes) != 30 {
		t.Errorf("expected 30 outcomes, got %d", len(outcomes))
	}
	if verifier.calls.Load() != 30 {
		t.Errorf("expected 30 verifier calls, got %d", verifier.calls.Load())
	}
}

func TestBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchProcessor(&fakeVerifier{}, 2)

	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("session-%d.txt", i)
	}

	done := make(chan []*VerifyOutcome, 1)
	go func() { done <- b.ProcessPaths(ctx, paths) }()

	var outcomes []*VerifyOutcome
	select {
	case outcomes = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("batch ignored its canceled context")
	}

	if len(outcomes) == 30 {
		t.Error("canceled batch should not complete every transcript")
	}
}

func TestBatch_EmptyInput(t *testing.T) {
	b := NewBatchProcessor(&fakeVerifier{}, 2)

	outcomes := b.ProcessPaths(context.Background(), nil)
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "list.txt")
	content := `# transcripts to verify
session-1.txt

session-2.txt
session-1.txt
  session-3.txt
`
	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	want := []string{"session-1.txt", "session-2.txt", "session-3.txt"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("path %d: got %q, want %q", i, p, want[i])
		}
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	if _, err := ReadPathsFromFile("no/such/list.txt"); err == nil {
		t.Error("expected error for missing list file")
	}
}

func TestBatch_ProcessList(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(listPath, []byte("a.txt\nb.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	verifier := &fakeVerifier{}
	b := NewBatchProcessor(verifier, 2)

	outcomes, err := b.ProcessList(context.Background(), listPath)
	if err != nil {
		t.Fatalf("process list failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(outcomes))
	}
}
