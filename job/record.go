package job

import (
	"fmt"

	"appshots/failures"
	"appshots/logger"
	"appshots/models"
	"appshots/success"

	"github.com/getsentry/sentry-go"
)

// recordResult persists an artifact outcome when run records are enabled and
// forwards failures to Sentry (a no-op unless sentry.Init was called).
func recordResult(runID string, res models.Result) {
	if res.OK() {
		if success.Enabled() {
			if err := success.StoreSuccess(runID, res); err != nil {
				logger.Errorf("Failed to store success record for %s: %v", res.Output, err)
			}
		}
		return
	}

	if failures.Enabled() {
		if err := failures.StoreFailure(runID, res, failures.StageSave, "", nil); err != nil {
			logger.Errorf("Failed to store failure record for %s: %v", res.Source, err)
		}
	}
	captureFailure(runID, res, failures.StageSave, "", res.Err)
}

// recordPublishFailure stores a publish error without touching the save outcome.
func recordPublishFailure(runID string, res models.Result, backend string, err error) {
	if failures.Enabled() {
		if storeErr := failures.StoreFailure(runID, res, failures.StagePublish, backend, err); storeErr != nil {
			logger.Errorf("Failed to store publish failure for %s: %v", res.Output, storeErr)
		}
	}
	captureFailure(runID, res, failures.StagePublish, backend, err)
}

func captureFailure(runID string, res models.Result, stage, backend string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", runID)
		scope.SetTag("target", res.Target)
		scope.SetTag("stage", stage)
		if backend != "" {
			scope.SetTag("backend", backend)
		}
		sentry.CaptureException(fmt.Errorf("%s: %w", res.Source, err))
	})
}
