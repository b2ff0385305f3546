// Package utrx implements the utrx command: predict coding regions on an
// assembled transcript set, optionally refine the predictions with a protein
// homology search, and extract 5' and 3' untranslated regions as BED and
// FASTA. The whole run is short; instead of checkpoints it removes its prior
// outputs unconditionally and starts clean on every invocation.
package utrx

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/utrpipe/utrpipe/checkpoint"
	"github.com/utrpipe/utrpipe/config"
	"github.com/utrpipe/utrpipe/internal/extern"
	"github.com/utrpipe/utrpipe/internal/fastx"
	"github.com/utrpipe/utrpipe/internal/orf"
	"github.com/utrpipe/utrpipe/internal/runlog"
	"github.com/utrpipe/utrpipe/internal/tools"
	"github.com/utrpipe/utrpipe/pipeline"
)

// Exit codes of the utrx command.
const (
	ExitOK    = 0
	ExitError = 1
)

const (
	defaultThreads = 4
	defaultMinLen  = 20

	// outSuffix namespaces every artifact next to the input transcripts.
	outSuffix = ".utr"
)

type options struct {
	transcripts string
	blastDB     string
	threads     int
	minLen      int
	profile     string
}

// App carries the injectable edges of the command, mirroring assemble.App.
type App struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Runner    extern.Runner
	Preflight func(tools ...string) error
}

// Run is the utrx entry point. Returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &App{Stdout: stdout, Stderr: stderr, Preflight: extern.Preflight}
	return a.Main(args)
}

// Main parses arguments and drives the extraction with the App's edges.
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

	if info, err := os.Stat(opts.transcripts); err != nil || info.IsDir() {
		log.Errorf("transcript file %s not readable", opts.transcripts)
		return ExitError
	}

	if a.Runner == nil {
		a.Runner = &extern.ExecRunner{Announce: log.Cmdf}
	}

	names := []string{tools.LongOrfs, tools.Predict, tools.Seqtk}
	if opts.blastDB != "" {
		names = append(names, tools.Aligner)
	}
	required := make([]string, 0, len(names))
	for _, name := range names {
		bin, _ := prof.Resolve(name)
		required = append(required, bin)
	}
	if err := a.Preflight(required...); err != nil {
		log.Errorf("%v", err)
		return ExitError
	}

	x := &extractor{opts: opts, prof: prof, runner: a.Runner, log: log}
	if err := x.cleanStart(); err != nil {
		log.Errorf("%v", err)
		return ExitError
	}
	// No resumability here: a fresh in-memory store means every step runs,
	// while the executor still gives ordering, fail-fast, and run logging.
	exec := &pipeline.Executor{Store: checkpoint.NewMemStore(), Observer: &runlog.Observer{Log: log}}
	if err := exec.Run(context.Background(), x.plan(), nil); err != nil {
		return ExitError
	}
	return ExitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("utrx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.transcripts, "i", "", "assembled transcript FASTA (required)")
	fs.StringVar(&opts.blastDB, "d", "", "protein database for homology-guided prediction (optional)")
	fs.IntVar(&opts.threads, "t", 0, "threads passed to external tools")
	fs.IntVar(&opts.minLen, "l", 0, "minimum UTR length to report")
	fs.StringVar(&opts.profile, "profile", "", "YAML run profile with tool overrides")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.transcripts == "" {
		return nil, errors.New("-i is required")
	}
	return opts, nil
}

func applyProfile(opts *options, prof *config.Profile) {
	if opts.threads == 0 && prof != nil {
		opts.threads = prof.Threads
	}
	if opts.threads == 0 {
		opts.threads = defaultThreads
	}
	if opts.minLen == 0 && prof != nil {
		opts.minLen = prof.MinUTRLen
	}
	if opts.minLen == 0 {
		opts.minLen = defaultMinLen
	}
	if opts.blastDB == "" && prof != nil {
		opts.blastDB = prof.BlastDB
	}
}

// extractor wires the extraction steps over the run's options.
type extractor struct {
	opts   *options
	prof   *config.Profile
	runner extern.Runner
	log    *runlog.Logger
}

func (x *extractor) base() string    { return x.opts.transcripts + outSuffix }
func (x *extractor) workDir() string { return x.base() + ".workdir" }
func (x *extractor) hitsPath() string {
	return filepath.Join(x.workDir(), "homology_hits.outfmt6")
}

func (x *extractor) bedPath(end string) string   { return x.base() + "." + end + ".bed" }
func (x *extractor) fastaPath(end string) string { return x.base() + "." + end + ".fasta" }

// cleanStart removes every prior same-named output.
func (x *extractor) cleanStart() error {
	if err := os.RemoveAll(x.workDir()); err != nil {
		return err
	}
	for _, end := range []string{"5UTR", "3UTR"} {
		for _, path := range []string{x.bedPath(end), x.fastaPath(end)} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

func (x *extractor) plan() *pipeline.Plan {
	fins := []pipeline.Finalizer{
		{Name: "orfs", Run: x.orfs},
	}
	if x.opts.blastDB != "" {
		fins = append(fins, pipeline.Finalizer{Name: "homology", Run: x.homology})
	}
	fins = append(fins,
		pipeline.Finalizer{Name: "predict", Run: x.predict},
		pipeline.Finalizer{Name: "extract", Run: x.extract},
	)
	return &pipeline.Plan{Name: "utr-extraction", Finalizers: fins}
}

func (x *extractor) orfs(ctx context.Context) error {
	bin, extra := x.prof.Resolve(tools.LongOrfs)
	return x.runner.Run(ctx, tools.LongOrfsCmd(bin, extra, x.opts.transcripts, x.workDir()))
}

// homology searches the candidate peptides against the protein database;
// the tabular hits feed the predictor's refinement mode.
func (x *extractor) homology(ctx context.Context) error {
	f, err := os.Create(x.hitsPath())
	if err != nil {
		return fmt.Errorf("homology: %w", err)
	}
	bin, extra := x.prof.Resolve(tools.Aligner)
	err = x.runner.Run(ctx, tools.AlignCmd(bin, extra,
		tools.LongestOrfsPep(x.workDir()), x.opts.blastDB, x.opts.threads, f))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (x *extractor) predict(ctx context.Context) error {
	hits := ""
	if x.opts.blastDB != "" {
		hits = x.hitsPath()
	}
	bin, extra := x.prof.Resolve(tools.Predict)
	return x.runner.Run(ctx, tools.PredictCmd(bin, extra, x.opts.transcripts, x.workDir(), hits))
}

// extract turns the predictor's CDS calls into UTR coordinates, writes the
// BED files, and pulls the matching sequences with the sequence toolkit.
func (x *extractor) extract(ctx context.Context) error {
	gff, err := os.Open(tools.PredictedGFF3(x.workDir(), x.opts.transcripts))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	cds, err := orf.ParseGFF3(gff)
	gff.Close()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	fa, err := os.Open(x.opts.transcripts)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	lengths, err := fastx.Lengths(fa)
	fa.Close()
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	five, three := orf.Regions(cds, lengths, x.opts.minLen)
	for _, r := range []struct {
		end       string
		intervals []orf.Interval
	}{
		{"5UTR", five},
		{"3UTR", three},
	} {
		if err := x.writeRegion(ctx, r.end, r.intervals); err != nil {
			return err
		}
		x.log.Infof("%d %s regions (>= %d bp)", len(r.intervals), r.end, x.opts.minLen)
	}
	return nil
}

func (x *extractor) writeRegion(ctx context.Context, end string, intervals []orf.Interval) error {
	bed, err := os.Create(x.bedPath(end))
	if err != nil {
		return err
	}
	err = orf.WriteBED(bed, intervals)
	if cerr := bed.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s bed: %w", end, err)
	}

	out, err := os.Create(x.fastaPath(end))
	if err != nil {
		return err
	}
	bin, extra := x.prof.Resolve(tools.Seqtk)
	err = x.runner.Run(ctx, tools.SubseqCmd(bin, extra, x.opts.transcripts, x.bedPath(end), out))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s fasta: %w", end, err)
	}
	return nil
}
