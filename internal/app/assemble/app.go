// Package assemble implements the asmpipe command: download sequencing
// reads for up to nine accessions, trim them, assemble transcripts, and
// finalize a merged, renamed, summarized assembly. Every per-item stage and
// finalizer is checkpointed, so re-invoking with the same arguments resumes
// where the previous run stopped.
package assemble

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/utrpipe/utrpipe/checkpoint"
	"github.com/utrpipe/utrpipe/config"
	"github.com/utrpipe/utrpipe/internal/extern"
	"github.com/utrpipe/utrpipe/internal/runlog"
	"github.com/utrpipe/utrpipe/internal/tools"
	"github.com/utrpipe/utrpipe/pipeline"
)

// Exit codes of the asmpipe command.
const (
	ExitOK    = 0
	ExitError = 1
	// ExitEmpty reports a merged assembly with zero records; downstream
	// analysis on it would silently produce nothing.
	ExitEmpty = 2
)

// maxItems bounds one run; larger cohorts should be split across runs.
const maxItems = 9

const (
	defaultThreads  = 4
	defaultMemoryGB = 8
)

type options struct {
	items   []string
	out     string
	strand  string
	threads int
	memGB   int
	profile string
	restart bool
}

// App carries the injectable edges of the command. Tests swap Runner and
// Preflight for fakes; the real wiring lives in Run.
type App struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Runner    extern.Runner
	Preflight func(tools ...string) error
}

// Run is the asmpipe entry point: parses args, wires the real process
// runner, and executes the pipeline. Returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &App{Stdout: stdout, Stderr: stderr, Preflight: extern.Preflight}
	return a.Main(args)
}

// Main parses arguments and drives the run with the App's edges.
func (a *App) Main(args []string) int {
	log := runlog.New(a.Stdout, a.Stderr)

	opts, err := parseArgs(args, a.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		log.Errorf("%v", err)
		return ExitError
	}

	var prof *config.Profile
	if opts.profile != "" {
		prof, err = config.Load(opts.profile)
		if err != nil {
			log.Errorf("%v", err)
			return ExitError
		}
	}
	applyProfile(opts, prof)

	if a.Runner == nil {
		a.Runner = &extern.ExecRunner{Announce: log.Cmdf}
	}

	required := make([]string, 0, 5)
	for _, name := range []string{tools.Downloader, tools.Trimmer, tools.Assembler, tools.Stats, tools.Seqtk} {
		bin, _ := prof.Resolve(name)
		required = append(required, bin)
	}
	if err := a.Preflight(required...); err != nil {
		log.Errorf("%v", err)
		return ExitError
	}

	if opts.restart {
		log.Infof("restart requested, removing %s", opts.out)
		if err := os.RemoveAll(opts.out); err != nil {
			log.Errorf("restart: %v", err)
			return ExitError
		}
	}

	store, err := checkpoint.NewFileStore(opts.out)
	if err != nil {
		log.Errorf("%v", err)
		return ExitError
	}

	p := &builder{opts: opts, prof: prof, runner: a.Runner, stdout: a.Stdout}
	exec := &pipeline.Executor{Store: store, Observer: &runlog.Observer{Log: log}}
	if err := exec.Run(context.Background(), p.plan(), itemsOf(opts.items)); err != nil {
		if errors.Is(err, errEmptyAssembly) {
			return ExitEmpty
		}
		return ExitError
	}
	log.Infof("assembly written to %s", p.mergedPath())
	return ExitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("asmpipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	var items string
	fs.StringVar(&items, "i", "", "comma-separated accession IDs (required, at most 9)")
	fs.StringVar(&opts.out, "o", "", "output name; used as working directory and artifact prefix (required)")
	fs.StringVar(&opts.strand, "s", "", "strand-specific library type passed to the assembler (e.g. RF)")
	fs.IntVar(&opts.threads, "t", 0, "threads passed to external tools")
	fs.IntVar(&opts.memGB, "m", 0, "assembler memory budget in GB")
	fs.StringVar(&opts.profile, "profile", "", "YAML run profile with tool overrides")
	fs.BoolVar(&opts.restart, "restart", false, "discard all checkpoints and outputs, then start clean")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if items == "" || opts.out == "" {
		return nil, errors.New("both -i and -o are required")
	}
	for _, id := range strings.Split(items, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("empty accession in -i %q", items)
		}
		opts.items = append(opts.items, id)
	}
	if len(opts.items) > maxItems {
		return nil, fmt.Errorf("%d accessions given, at most %d per run", len(opts.items), maxItems)
	}
	return opts, nil
}

// applyProfile fills unset numeric options from the profile, then from
// built-in defaults. Explicit flags win.
func applyProfile(opts *options, prof *config.Profile) {
	if opts.threads == 0 && prof != nil {
		opts.threads = prof.Threads
	}
	if opts.threads == 0 {
		opts.threads = defaultThreads
	}
	if opts.memGB == 0 && prof != nil {
		opts.memGB = prof.MemoryGB
	}
	if opts.memGB == 0 {
		opts.memGB = defaultMemoryGB
	}
}

func itemsOf(ids []string) []pipeline.Item {
	items := make([]pipeline.Item, len(ids))
	for i, id := range ids {
		items[i] = pipeline.Item(id)
	}
	return items
}
