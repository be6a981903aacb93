package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"gopkg.in/yaml.v3"
)

// Document is one program read from a YAML AST document.
type Document struct {
	Name    string
	Expect  map[string]string // pass name -> "ok" or diagnostic code
	Program *ast.Program
	Line    int // line of the program's statement list in its file
}

type rawDocument struct {
	Name    string            `yaml:"name"`
	Expect  map[string]string `yaml:"expect"`
	Program yaml.Node         `yaml:"program"`
}

// LoadFile reads every document of a YAML file. Unnamed documents are named
// after the file and their position in it.
func LoadFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, doc := range docs {
		if doc.Name == "" {
			doc.Name = fmt.Sprintf("%s#%d", base, i+1)
		}
		doc.Program.Name = doc.Name
	}
	return docs, nil
}

// Decode reads a stream of YAML documents, one program per document.
func Decode(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var docs []*Document
	for n := 1; ; n++ {
		var raw rawDocument
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if raw.empty() {
			continue
		}
		doc, err := buildDocument(&raw)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DecodeString is Decode over an in-memory string.
func DecodeString(s string) ([]*Document, error) {
	return Decode(strings.NewReader(s))
}

// empty reports a document with no content at all, such as the one after a trailing "---".
func (raw *rawDocument) empty() bool {
	return raw.Program.Kind == 0 && raw.Name == "" && raw.Expect == nil
}

func buildDocument(raw *rawDocument) (*Document, error) {
	if raw.Program.Kind == 0 {
		return nil, errors.New("missing program")
	}
	if err := checkExpect(raw.Expect); err != nil {
		return nil, err
	}
	stmts, err := decodeStatements(&raw.Program)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:    raw.Name,
		Expect:  raw.Expect,
		Program: ast.NewProgram(raw.Name, stmts...),
		Line:    raw.Program.Line,
	}, nil
}

// checkExpect accepts only known pass names mapped to "ok" or a known diagnostic code.
func checkExpect(expect map[string]string) error {
	passes := make([]string, 0, len(expect))
	for pass := range expect {
		passes = append(passes, pass)
	}
	sort.Strings(passes)
	for _, pass := range passes {
		if pass != config.TypesPassName && pass != config.BorrowsPassName {
			return fmt.Errorf("expect: unknown pass %q (want %s or %s)", pass, config.TypesPassName, config.BorrowsPassName)
		}
		outcome := expect[pass]
		if outcome != config.ExpectOK && !diagnostics.ErrorCode(outcome).Known() {
			return fmt.Errorf("expect: %s: unknown outcome %q", pass, outcome)
		}
	}
	return nil
}
