// Package tools assembles the command lines for the external tools both
// pipelines delegate to. Each builder returns an extern.Command verbatim;
// nothing here runs anything or inspects tool output beyond the files the
// tools are documented to write.
package tools

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/utrpipe/utrpipe/internal/extern"
	"github.com/utrpipe/utrpipe/internal/reads"
)

// Default tool names, resolved on PATH unless a profile overrides them.
const (
	Downloader = "fastq-dump"
	Trimmer    = "trimmomatic"
	Assembler  = "Trinity"
	Stats      = "TrinityStats.pl"
	Seqtk      = "seqtk"
	LongOrfs   = "TransDecoder.LongOrfs"
	Predict    = "TransDecoder.Predict"
	Aligner    = "blastp"
)

// Trim step parameters handed to the trimmer as-is.
var trimSteps = []string{"SLIDINGWINDOW:4:15", "MINLEN:36"}

// Download fetches one accession's reads into outDir, split into mate files
// for paired-end runs.
func Download(bin string, extra []string, outDir, item string) extern.Command {
	args := []string{"--split-3", "-O", outDir}
	args = append(args, extra...)
	args = append(args, item)
	return extern.Command{Name: bin, Args: args}
}

// UnpairedPath returns where the trimmer's unpaired survivors for a mate
// file go. They are kept next to the mates but never fed downstream.
func UnpairedPath(matePath string) string {
	return strings.TrimSuffix(matePath, ".fastq") + ".unpaired.fastq"
}

// Trim builds the trimmer invocation for one sample. The single/paired mode
// and file counts follow the classification of the raw files; outputs use
// the trimmed file set for the same item.
func Trim(bin string, extra []string, threads int, cls reads.Classification, out reads.FileSet) extern.Command {
	var args []string
	switch cls.Layout {
	case reads.Paired:
		args = []string{"PE", "-threads", fmt.Sprint(threads),
			cls.Reads[0], cls.Reads[1],
			out.Mate1, UnpairedPath(out.Mate1),
			out.Mate2, UnpairedPath(out.Mate2),
		}
	default:
		args = []string{"SE", "-threads", fmt.Sprint(threads), cls.Reads[0], out.Single}
	}
	args = append(args, trimSteps...)
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args}
}

// Assemble builds the assembler invocation over the aggregated inputs of
// every sample: single-end files go to --single, mate pairs to --left and
// --right, each list in item order.
func Assemble(bin string, extra []string, threads, memGB int, strand, outDir string, inputs []reads.Input) extern.Command {
	args := []string{
		"--seqType", "fq",
		"--max_memory", fmt.Sprintf("%dG", memGB),
		"--CPU", fmt.Sprint(threads),
	}
	if strand != "" {
		args = append(args, "--SS_lib_type", strand)
	}
	var singles, lefts, rights []string
	for _, in := range inputs {
		if in.Layout == reads.Paired {
			lefts = append(lefts, in.Reads[0])
			rights = append(rights, in.Reads[1])
		} else {
			singles = append(singles, in.Reads[0])
		}
	}
	if len(singles) > 0 {
		args = append(args, "--single", strings.Join(singles, ","))
	}
	if len(lefts) > 0 {
		args = append(args, "--left", strings.Join(lefts, ","), "--right", strings.Join(rights, ","))
	}
	args = append(args, "--output", outDir)
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args}
}

// AssemblyFasta is where the assembler leaves the multi-item result.
func AssemblyFasta(outDir string) string {
	return filepath.Join(outDir, "Trinity.fasta")
}

// SeqCmd normalizes a FASTA file (fixed line width, cleaned-up records);
// the toolkit writes the result on stdout, captured by the caller.
func SeqCmd(bin string, extra []string, fasta string, stdout io.Writer) extern.Command {
	args := []string{"seq", "-l", "60", fasta}
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args, Stdout: stdout}
}

// StatsCmd computes descriptive statistics over the merged assembly;
// the tool prints them on stdout, captured by the caller.
func StatsCmd(bin string, extra []string, fasta string, stdout io.Writer) extern.Command {
	args := append([]string{fasta}, extra...)
	return extern.Command{Name: bin, Args: args, Stdout: stdout}
}

// LongOrfsCmd runs the ORF predictor's extraction phase into workDir.
func LongOrfsCmd(bin string, extra []string, transcripts, workDir string) extern.Command {
	args := []string{"-t", transcripts, "-O", workDir}
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args}
}

// LongestOrfsPep is the predicted-peptide file the extraction phase writes.
func LongestOrfsPep(workDir string) string {
	return filepath.Join(workDir, "longest_orfs.pep")
}

// AlignCmd searches the predicted peptides against db, tabular output on
// stdout (captured to the hits file by the caller).
func AlignCmd(bin string, extra []string, query, db string, threads int, stdout io.Writer) extern.Command {
	args := []string{
		"-query", query,
		"-db", db,
		"-outfmt", "6",
		"-evalue", "1e-5",
		"-max_target_seqs", "1",
		"-num_threads", fmt.Sprint(threads),
	}
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args, Stdout: stdout}
}

// PredictCmd runs the ORF predictor's selection phase. A non-empty hits file
// switches on homology-guided refinement.
func PredictCmd(bin string, extra []string, transcripts, workDir, hits string) extern.Command {
	args := []string{"-t", transcripts, "-O", workDir, "--single_best_only"}
	if hits != "" {
		args = append(args, "--retain_blastp_hits", hits)
	}
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args}
}

// PredictedGFF3 is where the selection phase writes its transcript-space
// GFF3 for the given input FASTA.
func PredictedGFF3(workDir, transcripts string) string {
	return filepath.Join(workDir, filepath.Base(transcripts)+".transdecoder.gff3")
}

// SubseqCmd extracts the BED regions from fasta; the toolkit writes the
// extracted sequences on stdout, captured by the caller.
func SubseqCmd(bin string, extra []string, fasta, bed string, stdout io.Writer) extern.Command {
	args := []string{"subseq", fasta, bed}
	args = append(args, extra...)
	return extern.Command{Name: bin, Args: args, Stdout: stdout}
}
