// Package samples holds the demonstration programs the command checks when
// it is given no input files.
package samples

import (
	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/funvibe/refcheck/internal/loader"
	"github.com/funvibe/refcheck/internal/typesystem"
)

var strRef = typesystem.NewRef(typesystem.String)

func expect(types, borrows string) map[string]string {
	return map[string]string{
		config.TypesPassName:   types,
		config.BorrowsPassName: borrows,
	}
}

func sample(name string, exp map[string]string, stmts ...ast.Statement) *loader.Document {
	return &loader.Document{Name: name, Expect: exp, Program: ast.NewProgram(name, stmts...)}
}

// All returns fresh copies of every sample, in presentation order.
func All() []*loader.Document {
	ok := config.ExpectOK
	return []*loader.Document{
		sample("good1", expect(ok, ok),
			ast.Let("str", typesystem.String, ast.Str("This program is fine.")),
			ast.Let("str_ref1", strRef, ast.Ref("str")),
			ast.Let("str_ref1", strRef, ast.Ref("str")),
			ast.Let("str_ref3", strRef, ast.Ref("str")),
		),
		sample("good2", expect(ok, ok),
			ast.Let("str", typesystem.String, ast.Str("This program is fine.")),
			ast.LetMut("str_mut_ref1", strRef, ast.Ref("str")),
		),
		sample("bad", expect(ok, string(diagnostics.ErrB001)),
			ast.Let("str", typesystem.String, ast.Str("This program is not.")),
			ast.Let("str_ref1", strRef, ast.Ref("str")),
			ast.LetMut("str_mut_ref1", strRef, ast.Ref("str")),
		),
		sample("scoped-exclusive", expect(ok, ok),
			ast.Let("s", typesystem.String, ast.Str("v")),
			ast.Scope(ast.LetMut("m", strRef, ast.Ref("s"))),
			ast.Let("r", strRef, ast.Ref("s")),
		),
		sample("mismatch", expect(string(diagnostics.ErrT001), ok),
			ast.Let("n", typesystem.Int32, ast.Str("x")),
		),
		sample("arithmetic", expect(ok, ok),
			ast.Let("p", typesystem.NewPair(typesystem.Int32, typesystem.String), ast.Pair(ast.Int(40), ast.Str("two"))),
			ast.Let("n", typesystem.Int32, ast.Add(ast.First(ast.Get("p")), ast.Int(2))),
			ast.Let("r", typesystem.NewRef(typesystem.Int32), ast.Ref("n")),
			ast.Let("m", typesystem.Int32, ast.Add(ast.Deref(ast.Get("r")), ast.Get("n"))),
		),
	}
}
