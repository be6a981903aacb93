package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/funvibe/refcheck/internal/pipeline"
	"github.com/funvibe/refcheck/internal/prettyprinter"
)

type reporter struct {
	w        io.Writer
	color    bool
	print    bool
	printAST bool
}

// report writes the program header, optionally the program, and one line per pass:
//
//	bad (run 3f1c...)
//	  PASS types
//	  FAIL borrows: borrows error B001 at statement 2: ... [expected]
//	    at: let mut str_mut_ref1: &String = &str;
func (r *reporter) report(j job, ctx *pipeline.PipelineContext) {
	header := j.doc.Name
	if ctx.FilePath != "" {
		header = fmt.Sprintf("%s (%s:%d)", header, ctx.FilePath, j.doc.Line)
	}
	if !config.IsTestMode {
		header = fmt.Sprintf("%s [run %s]", header, ctx.RunID)
	}
	fmt.Fprintln(r.w, header)

	if (r.print || r.printAST) && ctx.Program != nil {
		fmt.Fprintf(r.w, "  depth %d\n", ast.Depth(ctx.Program))
		if r.print {
			r.writeIndented(prettyprinter.Program(ctx.Program))
		}
		if r.printAST {
			r.writeIndented(ctx.Program.String())
		}
	}

	mismatched := map[string]bool{}
	for _, m := range ctx.Mismatches() {
		mismatched[m.Pass] = true
	}
	for _, res := range ctx.Results {
		status := "PASS"
		if res.Err != nil {
			status = "FAIL"
		}
		if r.color {
			if mismatched[res.Pass] {
				status = ansiRed + status + ansiReset
			} else {
				status = ansiGreen + status + ansiReset
			}
		}

		line := fmt.Sprintf("  %s %s", status, res.Pass)
		if res.Err != nil {
			line += ": " + res.Err.Error()
		}
		switch {
		case mismatched[res.Pass] && ctx.Expect != nil:
			want := ctx.Expect[res.Pass]
			if want == "" {
				want = config.ExpectOK
			}
			line += fmt.Sprintf(" [expected %s]", want)
		case res.Err != nil && !mismatched[res.Pass]:
			line += " [expected]"
		}
		fmt.Fprintln(r.w, line)

		if stmt := failedLet(ctx.Program, res.Err); stmt != nil {
			fmt.Fprintf(r.w, "    at: %s\n", prettyprinter.Statement(stmt))
		}
	}
}

func (r *reporter) writeIndented(text string) {
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			fmt.Fprintf(r.w, "    %s\n", line)
		}
	}
}

// failedLet returns the let statement a diagnostic points at, or nil when err
// carries no statement path or the path ends at a scope.
func failedLet(prog *ast.Program, err error) *ast.LetStatement {
	var d *diagnostics.DiagnosticError
	if prog == nil || !errors.As(err, &d) || len(d.Path) == 0 {
		return nil
	}
	stmts := prog.Statements
	var stmt ast.Statement
	for _, idx := range d.Path {
		if idx < 0 || idx >= len(stmts) {
			return nil
		}
		stmt = stmts[idx]
		stmts = nil
		if scope, ok := stmt.(*ast.ScopeStatement); ok {
			stmts = scope.Statements
		}
	}
	let, _ := stmt.(*ast.LetStatement)
	return let
}
