package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/utrpipe/utrpipe/config"
	"github.com/utrpipe/utrpipe/internal/extern"
	"github.com/utrpipe/utrpipe/internal/fastx"
	"github.com/utrpipe/utrpipe/internal/reads"
	"github.com/utrpipe/utrpipe/internal/tools"
	"github.com/utrpipe/utrpipe/pipeline"
)

// errEmptyAssembly marks a merged assembly containing no records.
var errEmptyAssembly = errors.New("merged assembly is empty")

// builder wires stage closures over the run's options. Each stage removes
// its own stale outputs before running so a rerun after a partial failure
// starts from a known state.
type builder struct {
	opts   *options
	prof   *config.Profile
	runner extern.Runner
	stdout io.Writer
}

func (b *builder) workDir() string { return b.opts.out }

// name is the artifact prefix: the base of the output path.
func (b *builder) name() string { return filepath.Base(b.opts.out) }

func (b *builder) trinityDir() string { return filepath.Join(b.workDir(), "trinity") }

func (b *builder) mergedPath() string { return b.opts.out + ".transcripts.fasta" }

func (b *builder) plan() *pipeline.Plan {
	return &pipeline.Plan{
		Name: "assembly",
		Stages: []pipeline.Stage{
			{Name: "download", Run: b.download},
			{Name: "trim", Run: b.trim},
		},
		Finalizers: []pipeline.Finalizer{
			{Name: "assemble", Run: b.assemble},
			{Name: "merge", Run: b.merge},
			{Name: "stats", Run: b.stats},
		},
	}
}

func (b *builder) download(ctx context.Context, item pipeline.Item) error {
	raw := reads.Raw(b.workDir(), string(item))
	if err := removeAll(raw.Single, raw.Mate1, raw.Mate2); err != nil {
		return err
	}
	bin, extra := b.prof.Resolve(tools.Downloader)
	return b.runner.Run(ctx, tools.Download(bin, extra, b.workDir(), string(item)))
}

func (b *builder) trim(ctx context.Context, item pipeline.Item) error {
	// The layout decision probes the raw files; it holds even when the
	// download stage was skipped via checkpoint.
	cls, err := reads.Raw(b.workDir(), string(item)).Classify()
	if err != nil {
		return err
	}
	out := reads.Trimmed(b.workDir(), string(item))
	if err := removeAll(out.Single, out.Mate1, out.Mate2,
		tools.UnpairedPath(out.Mate1), tools.UnpairedPath(out.Mate2)); err != nil {
		return err
	}
	bin, extra := b.prof.Resolve(tools.Trimmer)
	return b.runner.Run(ctx, tools.Trim(bin, extra, b.opts.threads, cls, out))
}

func (b *builder) assemble(ctx context.Context) error {
	// The aggregate is never checkpointed: replay the per-item
	// classification over all items on every invocation.
	inputs, err := reads.DeriveAssemblyInputs(b.workDir(), b.opts.items)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(b.trinityDir()); err != nil {
		return err
	}
	bin, extra := b.prof.Resolve(tools.Assembler)
	return b.runner.Run(ctx, tools.Assemble(bin, extra,
		b.opts.threads, b.opts.memGB, b.opts.strand, b.trinityDir(), inputs))
}

// merge normalizes the assembly with the sequence toolkit, then writes the
// run-named artifact with every record ID prefixed by the run name so pooled
// artifacts stay distinguishable. An empty result is an error: it must not
// propagate silently into downstream analysis.
func (b *builder) merge(ctx context.Context) error {
	norm := filepath.Join(b.workDir(), "assembly.normalized.fasta")
	f, err := os.Create(norm)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	bin, extra := b.prof.Resolve(tools.Seqtk)
	err = b.runner.Run(ctx, tools.SeqCmd(bin, extra, tools.AssemblyFasta(b.trinityDir()), f))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	src, err := os.Open(norm)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(b.mergedPath())
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	n, err := fastx.PrefixIDs(dst, src, b.name())
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", b.mergedPath(), errEmptyAssembly)
	}
	return nil
}

// stats runs the statistics tool over the merged artifact, persisting its
// report next to it and echoing it to the user.
func (b *builder) stats(ctx context.Context) error {
	f, err := os.Create(b.mergedPath() + ".stats")
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	bin, extra := b.prof.Resolve(tools.Stats)
	err = b.runner.Run(ctx, tools.StatsCmd(bin, extra, b.mergedPath(), io.MultiWriter(f, b.stdout)))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func removeAll(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
