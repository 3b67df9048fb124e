package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoodasCode/SlopWatch-sub001/internal/extract"
	"github.com/JoodasCode/SlopWatch-sub001/internal/logging"
	"github.com/JoodasCode/SlopWatch-sub001/internal/pipeline"
	"github.com/JoodasCode/SlopWatch-sub001/internal/supply"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <claim>",
	Short: "Re-verify a claim whenever workspace files change",
	Long: `Watch monitors the workspace and re-runs verification for the
given claim each time relevant files change. Useful while an assistant
is still editing: the verdict updates as the files catch up (or don't).

Example:
  slopwatch watch "added error handling to the uploader" --workspace ./proj
  slopwatch watch "made the grid responsive" --interval 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "debounce interval between re-verifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	log := logging.New("watch")

	watcher, err := supply.NewWatcher(cfg.Workspace.Root, cfg.Workspace.IgnoreDirs, log)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go watcher.Run(ctx)

	claim := extract.NewManualClaim(args[0], "", nil)

	// Initial verdict before any changes land
	if err := verifyOnce(ctx, p, claim.Text); err != nil {
		return err
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	fmt.Fprintf(os.Stderr, "\nWatching %s (Ctrl-C to stop)...\n", cfg.Workspace.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed := watcher.ChangedSince(watchInterval)
			if len(changed) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "\n%d file(s) changed, re-verifying...\n", len(changed))
			if err := verifyOnce(ctx, p, claim.Text); err != nil {
				log.Warn("re-verification failed", "error", err)
			}
		}
	}
}

func verifyOnce(ctx context.Context, p *pipeline.Pipeline, text string) error {
	claim := extract.NewManualClaim(text, "", nil)

	vr, err := p.VerifyClaim(ctx, claim, nil)
	if err != nil {
		return err
	}

	verdict := "VERIFIED"
	if vr.Result.IsLie {
		verdict = "LIE"
	}
	fmt.Printf("[%s] %s  %.2f  %s\n",
		time.Now().Format("15:04:05"), verdict, vr.Result.Confidence, vr.Result.Summary)
	return nil
}
