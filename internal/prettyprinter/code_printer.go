package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/funvibe/refcheck/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
const (
	precLowest = iota
	precAdd
	precPrefix
	precAtom
)

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Program renders a whole program, one statement per line.
func Program(p *ast.Program) string {
	printer := NewCodePrinter()
	p.Accept(printer)
	return printer.String()
}

// Statement renders a single statement, including nested scopes.
func Statement(s ast.Statement) string {
	printer := NewCodePrinter()
	printer.printStatement(s)
	return printer.String()
}

// Expr renders an expression on one line.
func Expr(e ast.Expr) string {
	printer := NewCodePrinter()
	printer.printExpr(e, precLowest, false)
	return printer.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) printStatement(s ast.Statement) {
	if s == nil {
		p.write("<???>")
		return
	}
	s.Accept(p)
}

func (p *CodePrinter) printStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		p.writeIndent()
		p.printStatement(s)
		p.writeln()
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expr, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	prec := precedence(expr)
	// Addition is left-associative: a right operand of equal precedence needs parentheses.
	needParens := prec < parentPrec || (isRight && prec == parentPrec && prec == precAdd)
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func precedence(expr ast.Expr) int {
	switch expr.(type) {
	case *ast.AddExpr:
		return precAdd
	case *ast.DereferenceExpr:
		return precPrefix
	default:
		return precAtom
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	p.printStatements(n.Statements)
}

func (p *CodePrinter) VisitScopeStatement(n *ast.ScopeStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	p.printStatements(n.Statements)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write("let ")
	if n.Mutable {
		p.write("mut ")
	}
	p.write(n.Name)
	p.write(": ")
	if n.Type != nil {
		p.write(n.Type.String())
	} else {
		p.write("<???>")
	}
	p.write(" = ")
	p.printExpr(n.Value, precLowest, false)
	p.write(";")
}

func (p *CodePrinter) VisitIntLiteral(n *ast.IntLiteral) {
	p.write(strconv.FormatInt(int64(n.Value), 10))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitPairExpr(n *ast.PairExpr) {
	p.write("(")
	p.printExpr(n.Left, precLowest, false)
	p.write(", ")
	p.printExpr(n.Right, precLowest, false)
	p.write(")")
}

func (p *CodePrinter) VisitFirstExpr(n *ast.FirstExpr) {
	p.write("first(")
	p.printExpr(n.Pair, precLowest, false)
	p.write(")")
}

func (p *CodePrinter) VisitSecondExpr(n *ast.SecondExpr) {
	p.write("second(")
	p.printExpr(n.Pair, precLowest, false)
	p.write(")")
}

func (p *CodePrinter) VisitReferenceOf(n *ast.ReferenceOf) {
	p.write("&" + n.Name)
}

func (p *CodePrinter) VisitAddExpr(n *ast.AddExpr) {
	p.printExpr(n.Left, precAdd, false)
	p.write(" + ")
	p.printExpr(n.Right, precAdd, true)
}

func (p *CodePrinter) VisitGetExpr(n *ast.GetExpr) {
	p.write(n.Name)
}

func (p *CodePrinter) VisitDereferenceExpr(n *ast.DereferenceExpr) {
	p.write("*")
	p.printExpr(n.Operand, precPrefix, false)
}
