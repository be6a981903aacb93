package pipeline

import (
	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/google/uuid"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors: the type and borrow passes are independent and
		// each reports its own first failure.
	}
	return ctx
}

// PassResult is the outcome of one checking pass. Err is nil on success.
type PassResult struct {
	Pass string
	Err  error
}

// Code is the diagnostic code of the failure, or config.ExpectOK on success.
func (r PassResult) Code() string {
	if r.Err == nil {
		return config.ExpectOK
	}
	if code := diagnostics.CodeOf(r.Err); code != "" {
		return string(code)
	}
	return "error"
}

// PipelineContext carries one program through the stages.
type PipelineContext struct {
	RunID    string
	FilePath string
	Program  *ast.Program
	Config   *config.Config
	// Expect maps a pass name to "ok" or the diagnostic code the pass must report.
	Expect  map[string]string
	Results []PassResult
	// Errors are failures of the pipeline itself (I/O, storage), not checker verdicts.
	Errors []error
}

func NewContext(program *ast.Program, cfg *config.Config) *PipelineContext {
	if cfg == nil {
		cfg = config.Default()
	}
	return &PipelineContext{
		RunID:   uuid.NewString(),
		Program: program,
		Config:  cfg,
	}
}

func (ctx *PipelineContext) AddResult(pass string, err error) {
	ctx.Results = append(ctx.Results, PassResult{Pass: pass, Err: err})
}

// Result returns the result recorded for pass.
func (ctx *PipelineContext) Result(pass string) (PassResult, bool) {
	for _, r := range ctx.Results {
		if r.Pass == pass {
			return r, true
		}
	}
	return PassResult{}, false
}

// Mismatches lists the passes whose outcome differs from Expect.
// Without expectations, every failed pass is a mismatch.
func (ctx *PipelineContext) Mismatches() []PassResult {
	var out []PassResult
	for _, r := range ctx.Results {
		want, ok := ctx.Expect[r.Pass]
		if !ok {
			want = config.ExpectOK
		}
		if r.Code() != want {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every pass matched its expectation and the pipeline itself did not fail.
func (ctx *PipelineContext) OK() bool {
	return len(ctx.Errors) == 0 && len(ctx.Mismatches()) == 0
}
