package store

import (
	"context"
	"time"

	"github.com/funvibe/refcheck/internal/pipeline"
)

// RecordProcessor appends the pass results of each pipeline run to the store.
type RecordProcessor struct {
	Store *Store
	// Now is overridable in tests.
	Now func() time.Time
}

func (rp *RecordProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if rp.Store == nil || len(ctx.Results) == 0 {
		return ctx
	}
	now := time.Now
	if rp.Now != nil {
		now = rp.Now
	}
	name := ""
	if ctx.Program != nil {
		name = ctx.Program.Name
	}
	at := now()
	runs := make([]Run, 0, len(ctx.Results))
	for _, r := range ctx.Results {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		runs = append(runs, Run{
			RunID:     ctx.RunID,
			Program:   name,
			Pass:      r.Pass,
			Code:      r.Code(),
			Message:   msg,
			CheckedAt: at,
		})
	}
	if err := rp.Store.Record(context.Background(), runs...); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
