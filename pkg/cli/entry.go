// Package cli implements the refcheck command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/funvibe/refcheck/internal/analyzer"
	"github.com/funvibe/refcheck/internal/borrowck"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/funvibe/refcheck/internal/loader"
	"github.com/funvibe/refcheck/internal/pipeline"
	"github.com/funvibe/refcheck/internal/samples"
	"github.com/funvibe/refcheck/internal/store"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

// Exit statuses
const (
	ExitOK       = 0
	ExitMismatch = 1
	ExitUsage    = 2
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
)

// job is one program to check together with the file it came from.
type job struct {
	path string
	doc  *loader.Document
}

// options are the command-line settings that are not part of config.Config.
type options struct {
	configPath string
	history    string
	emit       bool
}

// isSourceFile checks if a file has a recognized document extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Run executes the command with args (without the program name) and returns
// the exit status.
func Run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "refcheck: ", 0)

	if os.Getenv(config.TestModeEnvVar) == "1" {
		config.IsTestMode = true
	}

	cfg, opts, files, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		logger.Print(err)
		return ExitUsage
	}

	if opts.history != "" {
		if err := showHistory(context.Background(), opts.history, stdout); err != nil {
			logger.Printf("history: %s", err)
			return ExitUsage
		}
		return ExitOK
	}

	jobs, err := loadJobs(files)
	if err != nil {
		logger.Print(err)
		return ExitUsage
	}

	if opts.emit {
		docs := make([]*loader.Document, len(jobs))
		for i, j := range jobs {
			docs[i] = j.doc
		}
		if err := loader.Encode(stdout, docs); err != nil {
			logger.Print(err)
			return ExitUsage
		}
		return ExitOK
	}

	processors := []pipeline.Processor{
		&analyzer.TypeCheckProcessor{},
		&borrowck.BorrowCheckProcessor{},
	}
	if cfg.Record != "" {
		db, err := store.Open(context.Background(), cfg.Record)
		if err != nil {
			logger.Printf("record: %s", err)
			return ExitUsage
		}
		defer db.Close()
		processors = append(processors, &store.RecordProcessor{Store: db})
	}

	results := checkAll(jobs, cfg, pipeline.New(processors...))

	r := &reporter{w: stdout, color: useColor(cfg.Color, stdout), print: cfg.Print, printAST: cfg.PrintAST}
	failed := 0
	for i, ctx := range results {
		r.report(jobs[i], ctx)
		for _, err := range ctx.Errors {
			logger.Printf("%s: %s", jobs[i].doc.Name, err)
		}
		if !ctx.OK() {
			failed++
		}
	}
	fmt.Fprintf(stdout, "%d programs checked, %d failed\n", len(results), failed)
	if failed > 0 {
		return ExitMismatch
	}
	return ExitOK
}

func parseArgs(args []string, stderr io.Writer) (*config.Config, options, []string, error) {
	var opts options

	fs := flag.NewFlagSet("refcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config `file` (default $"+config.ConfigEnvVar+")")
	fs.StringVar(&opts.history, "history", "", "list the runs recorded in `db` and exit")
	fs.BoolVar(&opts.emit, "emit", false, "write the programs as YAML documents instead of checking them")
	printProgram := fs.Bool("print", false, "pretty-print each program before its results")
	printAST := fs.Bool("print-ast", false, "print each program in constructor form before its results")
	record := fs.String("record", "", "append results to the SQLite `db`")
	color := fs.String("color", config.ColorAuto, "colour output: auto, always or never")
	jobs := fs.Int("jobs", 0, "number of programs checked concurrently (default: CPU count)")
	maxDepth := fs.Int("max-depth", config.DefaultMaxDepth, "maximum scope and expression nesting")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: refcheck [flags] [file.yaml|dir ...]\n\n")
		fmt.Fprintf(stderr, "Without files the built-in sample programs are checked.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, opts, nil, err
	}

	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.ConfigEnvVar)
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, opts, nil, err
		}
		cfg = loaded
	}

	// Flags given explicitly override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "print":
			cfg.Print = *printProgram
		case "print-ast":
			cfg.PrintAST = *printAST
		case "record":
			cfg.Record = *record
		case "color":
			cfg.Color = *color
		case "jobs":
			cfg.Jobs = *jobs
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, opts, nil, err
	}
	return cfg, opts, fs.Args(), nil
}

// loadJobs reads every document of the given files and directories, in order.
// Without paths it returns the sample programs.
func loadJobs(paths []string) ([]job, error) {
	if len(paths) == 0 {
		var jobs []job
		for _, doc := range samples.All() {
			jobs = append(jobs, job{doc: doc})
		}
		return jobs, nil
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, entry := range entries {
			if !entry.IsDir() && isSourceFile(entry.Name()) {
				names = append(names, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(names)
		files = append(files, names...)
	}

	var jobs []job
	for _, file := range files {
		docs, err := loader.LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			jobs = append(jobs, job{path: file, doc: doc})
		}
	}
	return jobs, nil
}

// checkAll runs the pipeline over every job, at most cfg.Jobs at a time.
// Results are returned in job order.
func checkAll(jobs []job, cfg *config.Config, p *pipeline.Pipeline) []*pipeline.PipelineContext {
	results := make([]*pipeline.PipelineContext, len(jobs))

	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			ctx := pipeline.NewContext(j.doc.Program, cfg)
			ctx.FilePath = j.path
			ctx.Expect = j.doc.Expect
			results[i] = ctx
			// A malformed tree panics in the checkers; keep it to this program.
			defer func() {
				if r := recover(); r != nil {
					ctx.Errors = append(ctx.Errors, fmt.Errorf("internal error: %v", r))
				}
			}()
			results[i] = p.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func showHistory(ctx context.Context, path string, w io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(ctx, 0)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s %s %s %s %s", run.CheckedAt.Format(time.RFC3339), run.RunID, run.Program, run.Pass, run.Code)
		if run.Code != config.ExpectOK {
			fmt.Fprintf(w, " (%s)", diagnostics.ErrorCode(run.Code).Title())
		}
		if run.Message != "" {
			fmt.Fprintf(w, ": %s", run.Message)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if config.IsTestMode {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
