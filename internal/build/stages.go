package build

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

const (
	StageLoad     StageName = "load"
	StageHistory  StageName = "history"
	StageProcess  StageName = "process"
	StageEmit     StageName = "emit"
	StageManifest StageName = "manifest"
)

// stage is one named step of a build.
type stage struct {
	name StageName
	fn   func(ctx context.Context) error
}

// runStages executes stages in order, recording a duration and result per
// stage. It stops at the first error and returns the failed stage's name.
func runStages(ctx context.Context, rec metrics.Recorder, stages []stage) (StageName, error) {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			rec.IncStageResult(string(st.name), metrics.ResultCanceled)
			return st.name, &pipeline.StageError{Kind: pipeline.StageErrorCanceled, Stage: string(st.name), Err: err}
		}

		start := time.Now()
		err := st.fn(ctx)
		rec.ObserveStageDuration(string(st.name), time.Since(start))

		if err != nil {
			if isCancellation(ctx, err) {
				rec.IncStageResult(string(st.name), metrics.ResultCanceled)
			} else {
				rec.IncStageResult(string(st.name), metrics.ResultFatal)
			}
			return st.name, err
		}
		rec.IncStageResult(string(st.name), metrics.ResultSuccess)
	}
	return "", nil
}

func isCancellation(ctx context.Context, err error) bool {
	var se *pipeline.StageError
	if errors.As(err, &se) && se.Kind == pipeline.StageErrorCanceled {
		return true
	}
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
