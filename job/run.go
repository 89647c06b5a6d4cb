package job

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"appshots/config"
	"appshots/encoder"
	"appshots/logger"
	"appshots/models"
	"appshots/utils"

	"golang.org/x/sync/errgroup"
)

// Runner executes the batch resize described by a Config.
type Runner struct {
	cfg      *config.Config
	reporter *Reporter
	client   *http.Client
}

// New returns a Runner that prints its progress to out.
func New(cfg *config.Config, out io.Writer) *Runner {
	return &Runner{
		cfg:      cfg,
		reporter: NewReporter(out),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Run creates the output directories, selects the largest sources and saves
// one artifact per (source, target). Per-artifact failures are reported and
// collected in the Summary; only setup failures are returned as an error.
func (r *Runner) Run(ctx context.Context) (models.Summary, error) {
	cfg := r.cfg
	summary := models.Summary{RunID: utils.NewRunID(), Targets: cfg.Targets}

	opts := SaveOptions{Format: cfg.Format, Filter: cfg.Filter, Quality: cfg.Quality}
	if _, ok := encoder.Get(opts.Format); !ok {
		return summary, fmt.Errorf("encoder %s not found", opts.Format)
	}

	for _, t := range cfg.Targets {
		if err := os.MkdirAll(t.Dir, 0o755); err != nil {
			return summary, fmt.Errorf("create output directory %s: %w", t.Dir, err)
		}
	}

	found, err := Discover(cfg.SourceDir, cfg.Pattern)
	if err != nil {
		return summary, err
	}
	selected := SelectTopN(found, cfg.TopN)

	summary.Discovered = len(found)
	summary.Selected = len(selected)
	logger.Infof("Run %s: %d of %d sources selected from %s", summary.RunID, len(selected), len(found), cfg.SourceDir)

	r.reporter.Header(summary.Discovered, summary.Selected)

	results := make([]models.FileResult, len(selected))
	done := make([]chan struct{}, len(selected))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(max(cfg.Workers, 1))
	go func() {
		for i, src := range selected {
			g.Go(func() error {
				defer close(done[i])
				results[i] = processFile(ctx, i+1, src, cfg.Targets, opts)
				r.publish(ctx, summary.RunID, results[i])
				return nil
			})
		}
	}()

	// report strictly in rank order whatever order workers finish in
	for i := range selected {
		<-done[i]
		fr := results[i]
		r.reporter.File(fr)
		for _, a := range fr.Artifacts {
			recordResult(summary.RunID, a)
			if a.OK() {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
		}
	}
	g.Wait()
	summary.Files = results

	r.reporter.Footer(summary.Selected, cfg.Targets)

	if summary.Failed > 0 {
		logger.Warnf("Run %s: %d of %d artifacts failed; the summary above counts selected sources", summary.RunID, summary.Failed, summary.Failed+summary.Succeeded)
	}

	if cfg.CallbackURL != "" {
		if err := sendCallback(ctx, r.client, cfg.CallbackURL, cfg.CallbackHeaders, summary); err != nil {
			logger.Errorf("Failed to send callback for run %s: %v", summary.RunID, err)
		}
	}

	return summary, nil
}

// publish mirrors every written artifact of fr to the configured destinations.
func (r *Runner) publish(ctx context.Context, runID string, fr models.FileResult) {
	for _, wj := range r.cfg.Publish {
		for _, a := range fr.Artifacts {
			if !a.OK() {
				continue
			}
			if err := publishResult(ctx, wj, a); err != nil {
				logger.Errorf("Publish of %s failed: %v", a.Output, err)
				recordPublishFailure(runID, a, wj.Type, err)
			}
		}
	}
}
