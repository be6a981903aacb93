package loader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/typesystem"
	"gopkg.in/yaml.v3"
)

// Node keys of the document format.
const (
	keyLet    = "let"
	keyLetMut = "let_mut"
	keyScope  = "scope"

	keyPair = "pair"
	keyRef  = "ref"

	keyInt    = "int"
	keyString = "string"
	keyFirst  = "first"
	keySecond = "second"
	keyAdd    = "add"
	keyGet    = "get"
	keyDeref  = "deref"
)

func nodeError(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// singleKey unpacks a one-entry mapping such as {ref: s}.
func singleKey(n *yaml.Node, what string) (string, *yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, nodeError(n, "%s must be a mapping with exactly one key", what)
	}
	return n.Content[0].Value, resolve(n.Content[1]), nil
}

// fields unpacks a mapping, rejecting keys outside allowed and requiring all of them.
func fields(n *yaml.Node, what string, allowed ...string) (map[string]*yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "%s must be a mapping", what)
	}
	out := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if !contains(allowed, key) {
			return nil, nodeError(n.Content[i], "unknown %s field %q", what, key)
		}
		if _, dup := out[key]; dup {
			return nil, nodeError(n.Content[i], "duplicate %s field %q", what, key)
		}
		out[key] = resolve(n.Content[i+1])
	}
	var missing []string
	for _, key := range allowed {
		if _, ok := out[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nodeError(n, "%s is missing %s", what, strings.Join(missing, ", "))
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sequence(n *yaml.Node, what string, length int) ([]*yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "%s must be a sequence", what)
	}
	if length >= 0 && len(n.Content) != length {
		return nil, nodeError(n, "%s takes %d elements, got %d", what, length, len(n.Content))
	}
	return n.Content, nil
}

func scalar(n *yaml.Node, what string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", nodeError(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func identifier(n *yaml.Node, what string) (string, error) {
	name, err := scalar(n, what)
	if err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return "", nodeError(n, "%s %q is not an identifier", what, name)
	}
	return name, nil
}

func decodeStatements(n *yaml.Node) ([]ast.Statement, error) {
	items, err := sequence(n, "statement list", -1)
	if err != nil {
		return nil, err
	}
	stmts := make([]ast.Statement, 0, len(items))
	for _, item := range items {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeStatement(n *yaml.Node) (ast.Statement, error) {
	key, body, err := singleKey(n, "statement")
	if err != nil {
		return nil, err
	}
	switch key {
	case keyScope:
		stmts, err := decodeStatements(body)
		if err != nil {
			return nil, err
		}
		return ast.Scope(stmts...), nil

	case keyLet, keyLetMut:
		f, err := fields(body, key, "name", "type", "value")
		if err != nil {
			return nil, err
		}
		name, err := identifier(f["name"], "binding name")
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(f["type"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(f["value"])
		if err != nil {
			return nil, err
		}
		return &ast.LetStatement{Name: name, Type: typ, Value: value, Mutable: key == keyLetMut}, nil
	}
	return nil, nodeError(n, "unknown statement %q", key)
}

func decodeType(n *yaml.Node) (typesystem.Type, error) {
	n = resolve(n)
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case config.Int32TypeName:
			return typesystem.Int32, nil
		case config.StringTypeName:
			return typesystem.String, nil
		}
		return nil, nodeError(n, "unknown type %q", n.Value)
	}

	key, body, err := singleKey(n, "type")
	if err != nil {
		return nil, err
	}
	switch key {
	case keyPair:
		parts, err := sequence(body, "pair type", 2)
		if err != nil {
			return nil, err
		}
		left, err := decodeType(parts[0])
		if err != nil {
			return nil, err
		}
		right, err := decodeType(parts[1])
		if err != nil {
			return nil, err
		}
		return typesystem.NewPair(left, right), nil

	case keyRef:
		elem, err := decodeType(body)
		if err != nil {
			return nil, err
		}
		return typesystem.NewRef(elem), nil
	}
	return nil, nodeError(n, "unknown type constructor %q", key)
}

func decodeExpr(n *yaml.Node) (ast.Expr, error) {
	key, body, err := singleKey(n, "expression")
	if err != nil {
		return nil, err
	}
	switch key {
	case keyInt:
		text, err := scalar(body, "int literal")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, nodeError(body, "int literal %q is not a 32-bit integer", text)
		}
		return ast.Int(int32(v)), nil

	case keyString:
		text, err := scalar(body, "string literal")
		if err != nil {
			return nil, err
		}
		return ast.Str(text), nil

	case keyPair, keyAdd:
		parts, err := sequence(body, key, 2)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(parts[0])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(parts[1])
		if err != nil {
			return nil, err
		}
		if key == keyPair {
			return ast.Pair(left, right), nil
		}
		return ast.Add(left, right), nil

	case keyFirst, keySecond, keyDeref:
		operand, err := decodeExpr(body)
		if err != nil {
			return nil, err
		}
		switch key {
		case keyFirst:
			return ast.First(operand), nil
		case keySecond:
			return ast.Second(operand), nil
		}
		return ast.Deref(operand), nil

	case keyRef, keyGet:
		name, err := identifier(body, key+" target")
		if err != nil {
			return nil, err
		}
		if key == keyRef {
			return ast.Ref(name), nil
		}
		return ast.Get(name), nil
	}
	return nil, nodeError(n, "unknown expression %q", key)
}
