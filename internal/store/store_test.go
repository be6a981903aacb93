package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/funvibe/refcheck/internal/analyzer"
	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/borrowck"
	"github.com/funvibe/refcheck/internal/pipeline"
	"github.com/funvibe/refcheck/internal/typesystem"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Unix(1700000000, 0)

	err := s.Record(ctx,
		Run{RunID: "r1", Program: "a", Pass: "types", Code: "ok", CheckedAt: at},
		Run{RunID: "r1", Program: "a", Pass: "borrows", Code: "B001", Message: "conflict", CheckedAt: at},
	)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(ctx, Run{RunID: "r2", Program: "b", Pass: "types", Code: "ok", CheckedAt: at}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := s.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].RunID != "r2" || runs[2].Pass != "types" {
		t.Errorf("runs not newest first: %+v", runs)
	}
	if runs[1].Code != "B001" || runs[1].Message != "conflict" {
		t.Errorf("row lost data: %+v", runs[1])
	}
	if !runs[1].CheckedAt.Equal(at) {
		t.Errorf("CheckedAt = %v, want %v", runs[1].CheckedAt, at)
	}

	limited, err := s.Runs(ctx, 1)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != "r2" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, Run{RunID: "x", Program: "p", Pass: "types", Code: "ok", CheckedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runs, err := s.Runs(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("Runs after reopen = %v, %v", runs, err)
	}
}

func TestRecordProcessor(t *testing.T) {
	s := openTestStore(t)
	at := time.Unix(1700000000, 0)
	strRef := typesystem.NewRef(typesystem.String)
	prog := ast.NewProgram("bad",
		ast.Let("s", typesystem.String, ast.Str("v")),
		ast.Let("r", strRef, ast.Ref("s")),
		ast.LetMut("m", strRef, ast.Ref("s")),
	)

	p := pipeline.New(
		&analyzer.TypeCheckProcessor{},
		&borrowck.BorrowCheckProcessor{},
		&RecordProcessor{Store: s, Now: func() time.Time { return at }},
	)
	ctx := p.Run(pipeline.NewContext(prog, nil))
	if len(ctx.Errors) > 0 {
		t.Fatalf("pipeline errors: %v", ctx.Errors)
	}

	runs, err := s.Runs(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d rows, want 2", len(runs))
	}
	byPass := map[string]Run{}
	for _, r := range runs {
		byPass[r.Pass] = r
		if r.RunID != ctx.RunID || r.Program != "bad" {
			t.Errorf("row = %+v", r)
		}
	}
	if byPass["types"].Code != "ok" || byPass["types"].Message != "" {
		t.Errorf("types row = %+v", byPass["types"])
	}
	if byPass["borrows"].Code != "B001" || byPass["borrows"].Message == "" {
		t.Errorf("borrows row = %+v", byPass["borrows"])
	}
}

func TestRecordProcessorWithoutStore(t *testing.T) {
	ctx := pipeline.NewContext(ast.NewProgram("x"), nil)
	ctx.AddResult("types", nil)
	ctx = (&RecordProcessor{}).Process(ctx)
	if len(ctx.Errors) != 0 {
		t.Errorf("unexpected errors: %v", ctx.Errors)
	}
}
