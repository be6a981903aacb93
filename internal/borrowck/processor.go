package borrowck

import (
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/pipeline"
)

type BorrowCheckProcessor struct{}

func (bcp *BorrowCheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	checker := New(WithMaxDepth(ctx.Config.MaxDepth))
	ctx.AddResult(config.BorrowsPassName, checker.CheckProgram(ctx.Program))
	return ctx
}
