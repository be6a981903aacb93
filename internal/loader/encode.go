package loader

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/typesystem"
	"gopkg.in/yaml.v3"
)

// Encode writes docs as a YAML stream that Decode reads back unchanged.
func Encode(w io.Writer, docs []*Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(documentNode(doc)); err != nil {
			return err
		}
	}
	return enc.Close()
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: pairs}
}

func flowMapping(pairs ...*yaml.Node) *yaml.Node {
	n := mapping(pairs...)
	n.Style = yaml.FlowStyle
	return n
}

func seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func documentNode(doc *Document) *yaml.Node {
	root := mapping()
	if doc.Name != "" {
		root.Content = append(root.Content, str("name"), str(doc.Name))
	}
	if len(doc.Expect) > 0 {
		passes := make([]string, 0, len(doc.Expect))
		for pass := range doc.Expect {
			passes = append(passes, pass)
		}
		sort.Strings(passes)
		expect := flowMapping()
		for _, pass := range passes {
			expect.Content = append(expect.Content, str(pass), str(doc.Expect[pass]))
		}
		root.Content = append(root.Content, str("expect"), expect)
	}
	root.Content = append(root.Content, str("program"), statementsNode(doc.Program.Statements))
	return root
}

func statementsNode(stmts []ast.Statement) *yaml.Node {
	out := seq()
	for _, s := range stmts {
		out.Content = append(out.Content, statementNode(s))
	}
	return out
}

func statementNode(stmt ast.Statement) *yaml.Node {
	switch s := stmt.(type) {
	case *ast.ScopeStatement:
		return mapping(str(keyScope), statementsNode(s.Statements))
	case *ast.LetStatement:
		key := keyLet
		if s.Mutable {
			key = keyLetMut
		}
		body := flowMapping(
			str("name"), str(s.Name),
			str("type"), typeNode(s.Type),
			str("value"), exprNode(s.Value),
		)
		return mapping(str(key), body)
	}
	panic(fmt.Sprintf("loader: unexpected statement %T", stmt))
}

func typeNode(t typesystem.Type) *yaml.Node {
	switch tt := t.(type) {
	case typesystem.TInt32, typesystem.TString:
		return str(tt.String())
	case typesystem.TPair:
		return flowMapping(str(keyPair), flowSeq(typeNode(tt.Left), typeNode(tt.Right)))
	case typesystem.TRef:
		return flowMapping(str(keyRef), typeNode(tt.Elem))
	}
	panic(fmt.Sprintf("loader: unexpected type %T", t))
}

func flowSeq(items ...*yaml.Node) *yaml.Node {
	n := seq(items...)
	n.Style = yaml.FlowStyle
	return n
}

func exprNode(expr ast.Expr) *yaml.Node {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return flowMapping(str(keyInt), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(e.Value), 10)})
	case *ast.StringLiteral:
		return flowMapping(str(keyString), str(e.Value))
	case *ast.PairExpr:
		return flowMapping(str(keyPair), flowSeq(exprNode(e.Left), exprNode(e.Right)))
	case *ast.FirstExpr:
		return flowMapping(str(keyFirst), exprNode(e.Pair))
	case *ast.SecondExpr:
		return flowMapping(str(keySecond), exprNode(e.Pair))
	case *ast.ReferenceOf:
		return flowMapping(str(keyRef), str(e.Name))
	case *ast.AddExpr:
		return flowMapping(str(keyAdd), flowSeq(exprNode(e.Left), exprNode(e.Right)))
	case *ast.GetExpr:
		return flowMapping(str(keyGet), str(e.Name))
	case *ast.DereferenceExpr:
		return flowMapping(str(keyDeref), exprNode(e.Operand))
	}
	panic(fmt.Sprintf("loader: unexpected expression %T", expr))
}
