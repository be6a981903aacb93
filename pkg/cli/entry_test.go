package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/refcheck/internal/analyzer"
	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/borrowck"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/loader"
	"github.com/funvibe/refcheck/internal/pipeline"
	"github.com/funvibe/refcheck/internal/typesystem"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(config.TestModeEnvVar, "1")
	t.Setenv(config.ConfigEnvVar, "")
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func expectContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestSamplesMatchExpectations(t *testing.T) {
	code, out, errOut := runCLI(t)
	if code != ExitOK {
		t.Fatalf("exit = %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	expectContains(t, out,
		"good1\n  PASS types\n  PASS borrows\n",
		"bad\n  PASS types\n  FAIL borrows: borrows error B001 at statement 2:",
		"6 programs checked, 0 failed\n",
	)
}

func TestFixturesWithExpectations(t *testing.T) {
	code, out, _ := runCLI(t, "-jobs", "2", "testdata/borrows.yaml", "testdata/types.yaml")
	if code != ExitOK {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	// Reports follow input order regardless of scheduling.
	order := []string{"shared then exclusive", "exclusive in scope", "unbound", "deref"}
	last := -1
	for _, name := range order {
		idx := strings.Index(out, name+" (testdata/")
		if idx < 0 || idx < last {
			t.Fatalf("%q out of order:\n%s", name, out)
		}
		last = idx
	}
	expectContains(t, out, "types error T002 at statement 0:", "[expected]", "4 programs checked, 0 failed")
}

func TestFailureWithoutExpectations(t *testing.T) {
	code, out, _ := runCLI(t, "testdata/failing.yml")
	if code != ExitMismatch {
		t.Fatalf("exit = %d, want %d\n%s", code, ExitMismatch, out)
	}
	expectContains(t, out, "FAIL types: types error T001", "PASS borrows", "1 programs checked, 1 failed")
	if strings.Contains(out, "[expected") {
		t.Errorf("no expectation should be shown:\n%s", out)
	}
}

func TestDirectoryArgument(t *testing.T) {
	code, out, _ := runCLI(t, "testdata")
	if code != ExitMismatch {
		t.Fatalf("exit = %d, want %d\n%s", code, ExitMismatch, out)
	}
	expectContains(t, out, "5 programs checked, 1 failed")
}

func TestMismatchedExpectation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.yaml")
	src := `name: wrong
expect: {types: ok, borrows: B001}
program:
  - let: {name: s, type: String, value: {string: v}}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runCLI(t, path)
	if code != ExitMismatch {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	expectContains(t, out, "PASS borrows [expected B001]")
}

func TestMaxDepthFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.yaml")
	src := `expect: {types: D001, borrows: D001}
program:
  - scope:
      - scope:
          - scope: []
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runCLI(t, "-max-depth", "2", path)
	if code != ExitOK {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	expectContains(t, out, "deep#1 (", "nesting")
}

func TestPrintFlag(t *testing.T) {
	code, out, _ := runCLI(t, "-print", "testdata/borrows.yaml")
	if code != ExitOK {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	expectContains(t, out, "    let mut m: &String = &s;\n", "    {\n")
}

func TestColorAlways(t *testing.T) {
	_, out, _ := runCLI(t, "-color", "always", "testdata/failing.yml")
	expectContains(t, out, ansiRed+"FAIL"+ansiReset+" types", ansiGreen+"PASS"+ansiReset+" borrows")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"bad color", []string{"-color", "blue"}, "color must be one of"},
		{"bad jobs", []string{"-jobs", "0"}, "jobs must be positive"},
		{"missing file", []string{"testdata/absent.yaml"}, "absent.yaml"},
		{"missing config", []string{"-config", "testdata/absent-config.yaml"}, "absent-config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != ExitUsage {
				t.Errorf("exit = %d, want %d", code, ExitUsage)
			}
			expectContains(t, errOut, tt.want)
		})
	}
}

func TestLoadErrorReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	src := "program:\n  - let: {name: x, type: Int64, value: {int: 1}}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := runCLI(t, path)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
	expectContains(t, errOut, "broken.yaml", "line 2")
}

func TestConfigFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "refcheck.yaml")
	if err := os.WriteFile(cfgPath, []byte("print: true\njobs: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, out, _ := runCLI(t, "-config", cfgPath, "testdata/borrows.yaml")
	expectContains(t, out, "    let mut m: &String = &s;")

	_, out, _ = runCLI(t, "-config", cfgPath, "-print=false", "testdata/borrows.yaml")
	if strings.Contains(out, "let mut") {
		t.Errorf("-print=false should override the config file:\n%s", out)
	}
}

func TestRecordAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	if code, out, errOut := runCLI(t, "-record", db, "testdata/borrows.yaml"); code != ExitOK {
		t.Fatalf("exit = %d\n%s\n%s", code, out, errOut)
	}
	code, out, errOut := runCLI(t, "-history", db)
	if code != ExitOK {
		t.Fatalf("history exit = %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d history lines, want 4:\n%s", len(lines), out)
	}
	expectContains(t, out, "shared then exclusive borrows B001 (conflicting borrow): borrows error B001", "exclusive in scope types ok")
}

func TestHistoryMissingDatabase(t *testing.T) {
	code, _, _ := runCLI(t, "-history", filepath.Join(t.TempDir(), "none.db"))
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
}

func TestEmitRoundTrips(t *testing.T) {
	code, out, _ := runCLI(t, "-emit")
	if code != ExitOK {
		t.Fatalf("exit = %d", code)
	}
	docs, err := loader.DecodeString(out)
	if err != nil {
		t.Fatalf("emitted YAML does not load: %v\n%s", err, out)
	}
	if len(docs) != 6 || docs[2].Name != "bad" || docs[2].Expect[config.BorrowsPassName] != "B001" {
		t.Errorf("unexpected documents: %+v", docs)
	}
}

func TestPrintASTFlag(t *testing.T) {
	code, out, _ := runCLI(t, "-print-ast")
	if code != ExitOK {
		t.Fatalf("exit = %d\n%s", code, out)
	}
	expectContains(t, out,
		"good1\n  depth 1\n    Let(str, String, String(\"This program is fine.\"))\n    Let(str_ref1, &String, Reference(str))\n",
		"    LetMut(str_mut_ref1, &String, Reference(str))\n",
		"scoped-exclusive\n  depth 2\n    Let(s, String, String(\"v\"))\n    Scope([LetMut(m, &String, Reference(s))])\n",
	)
	if strings.Contains(out, "let mut") {
		t.Errorf("-print-ast alone should not print source form:\n%s", out)
	}
}

func TestFailingStatementShown(t *testing.T) {
	_, out, _ := runCLI(t)
	expectContains(t, out,
		"FAIL borrows: borrows error B001 at statement 2: cannot borrow str as exclusive: already borrowed as shared [expected]\n    at: let mut str_mut_ref1: &String = &str;\n",
		"[expected]\n    at: let n: Int32 = \"x\";\n",
	)
}

func TestFailedLet(t *testing.T) {
	strRef := typesystem.NewRef(typesystem.String)
	prog := ast.NewProgram("nested",
		ast.Let("s", typesystem.String, ast.Str("v")),
		ast.Scope(ast.Let("r", strRef, ast.Ref("s")), ast.LetMut("m", strRef, ast.Ref("s"))),
	)
	err := borrowck.CheckProgram(prog)
	let := failedLet(prog, err)
	if let == nil || let.Name != "m" {
		t.Fatalf("failedLet = %v for %v", let, err)
	}

	deep := ast.NewProgram("deep", ast.Scope(ast.Scope()))
	err = borrowck.New(borrowck.WithMaxDepth(1)).CheckProgram(deep)
	if let := failedLet(deep, err); let != nil {
		t.Errorf("a scope failure has no let, got %v", let)
	}
	if failedLet(prog, nil) != nil {
		t.Error("no error, no statement")
	}
}

func TestCheckAllRecoversFromPanics(t *testing.T) {
	jobs := []job{
		{doc: &loader.Document{Name: "broken", Program: ast.NewProgram("broken", nil)}},
		{doc: &loader.Document{Name: "fine", Program: ast.NewProgram("fine", ast.Let("n", typesystem.Int32, ast.Int(1)))}},
	}
	cfg := config.Default()
	p := pipeline.New(&analyzer.TypeCheckProcessor{}, &borrowck.BorrowCheckProcessor{})
	results := checkAll(jobs, cfg, p)

	if len(results[0].Errors) != 1 || !strings.Contains(results[0].Errors[0].Error(), "internal error") {
		t.Errorf("broken program errors = %v", results[0].Errors)
	}
	if results[0].OK() {
		t.Error("a panicking program must not be OK")
	}
	if !results[1].OK() || len(results[1].Results) != 2 {
		t.Errorf("other programs still run: %+v", results[1])
	}
}
