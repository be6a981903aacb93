package analyzer

import (
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/pipeline"
)

type TypeCheckProcessor struct{}

func (tcp *TypeCheckProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}
	checker := New(WithMaxDepth(ctx.Config.MaxDepth))
	ctx.AddResult(config.TypesPassName, checker.CheckProgram(ctx.Program))
	return ctx
}
