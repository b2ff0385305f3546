// Package reads classifies a sample's read files as single- or paired-end
// and derives the aggregated assembler inputs across all samples. The
// classification probes the filesystem, never stored state, so it is
// re-derivable identically on a resumed invocation even when the stage that
// produced the files was skipped via checkpoint.
package reads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Layout is the per-sample read layout, decided once per item per
// invocation and threaded explicitly through later stage inputs.
type Layout int

const (
	// Single means the sample yields one read file.
	Single Layout = iota + 1
	// Paired means the sample yields a left/right mate pair.
	Paired
)

func (l Layout) String() string {
	switch l {
	case Single:
		return "single"
	case Paired:
		return "paired"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ErrNoReads reports that neither the single-end nor the paired-end expected
// file exists. That means the producing stage never ran and was not skipped
// by checkpoint either; derivation fails loudly instead of silently
// producing an empty argument.
var ErrNoReads = errors.New("no read files found")

// FileSet names the candidate read files for one sample: the unsplit
// single-end file and the two mate files.
type FileSet struct {
	Single string
	Mate1  string
	Mate2  string
}

// Raw returns the file set the downloader writes for item under dir.
func Raw(dir, item string) FileSet {
	return FileSet{
		Single: filepath.Join(dir, item+".fastq"),
		Mate1:  filepath.Join(dir, item+"_1.fastq"),
		Mate2:  filepath.Join(dir, item+"_2.fastq"),
	}
}

// Trimmed returns the file set the trimmer writes for item under dir.
func Trimmed(dir, item string) FileSet {
	return FileSet{
		Single: filepath.Join(dir, item+".trim.fastq"),
		Mate1:  filepath.Join(dir, item+"_1.trim.fastq"),
		Mate2:  filepath.Join(dir, item+"_2.trim.fastq"),
	}
}

// Classification is the layout decision plus the read paths feeding the next
// stage: one path for single-end, left then right for paired-end.
type Classification struct {
	Layout Layout
	Reads  []string
}

// Classify probes the file set once. Both mates present means paired-end;
// exactly one of the single or first-mate files means single-end; nothing
// present is ErrNoReads. The decision is stable across repeated calls with
// no state mutation.
func (fs FileSet) Classify() (Classification, error) {
	if exists(fs.Mate1) && exists(fs.Mate2) {
		return Classification{Layout: Paired, Reads: []string{fs.Mate1, fs.Mate2}}, nil
	}
	if exists(fs.Single) {
		return Classification{Layout: Single, Reads: []string{fs.Single}}, nil
	}
	if exists(fs.Mate1) {
		return Classification{Layout: Single, Reads: []string{fs.Mate1}}, nil
	}
	return Classification{}, fmt.Errorf("%w (expected %s or %s)", ErrNoReads, fs.Single, fs.Mate1)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Input is one sample's contribution to the aggregated assembler arguments,
// tagged with the sample's 1-based position in the original item list.
type Input struct {
	Item  string
	Index int
	Classification
}

// DeriveAssemblyInputs rebuilds the aggregated assembler inputs by replaying
// the per-item classification over the trimmed files of every item, in item
// order. It is a pure fold over the item list: called on every invocation
// (including resumed ones), never checkpointed, and it fails on the first
// item with no readable layout.
func DeriveAssemblyInputs(dir string, items []string) ([]Input, error) {
	inputs := make([]Input, 0, len(items))
	for i, item := range items {
		cls, err := Trimmed(dir, item).Classify()
		if err != nil {
			return nil, fmt.Errorf("sample %d (%s): %w", i+1, item, err)
		}
		inputs = append(inputs, Input{Item: item, Index: i + 1, Classification: cls})
	}
	return inputs, nil
}
