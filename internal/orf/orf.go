// Package orf turns an ORF predictor's transcript-space GFF3 output into
// untranslated-region coordinates. The predictor itself is an external tool;
// this package only parses its selected CDS per transcript and computes the
// flanking 5' and 3' intervals.
package orf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// CDS is the selected coding region of one transcript, in transcript
// coordinates, 0-based half-open. Strand '-' means the ORF was called on
// the reverse strand of the assembled transcript.
type CDS struct {
	Transcript string
	Start, End int
	Strand     byte
}

// ParseGFF3 reads predictor GFF3 and returns the CDS per transcript. When a
// transcript carries several CDS features (predictor run without single-best
// selection), the longest wins. Input coordinates are 1-based inclusive per
// GFF3 and are converted on the way in.
func ParseGFF3(r io.Reader) (map[string]CDS, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	out := make(map[string]CDS)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 8 {
			return nil, fmt.Errorf("gff3 line %d: %d fields", lineNo, len(fields))
		}
		if fields[2] != "CDS" {
			continue
		}
		start, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("gff3 line %d: start: %w", lineNo, err)
		}
		end, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("gff3 line %d: end: %w", lineNo, err)
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("gff3 line %d: bad interval %d-%d", lineNo, start, end)
		}
		strand := byte('+')
		if fields[6] == "-" {
			strand = '-'
		}
		cds := CDS{Transcript: fields[0], Start: start - 1, End: end, Strand: strand}
		if prev, ok := out[cds.Transcript]; !ok || cds.End-cds.Start > prev.End-prev.Start {
			out[cds.Transcript] = cds
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Interval is one UTR region in BED terms (0-based half-open).
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Name   string
	Strand byte
}

// Len returns the interval length.
func (iv Interval) Len() int { return iv.End - iv.Start }

// UTRs computes the 5' and 3' intervals flanking cds on a transcript of
// seqLen bases. On the '-' strand the upstream/downstream roles swap. The
// CDS is clamped to the sequence bounds first; either interval may come back
// empty (Len() == 0).
func UTRs(cds CDS, seqLen int) (five, three Interval) {
	start, end := cds.Start, cds.End
	if end > seqLen {
		end = seqLen
	}
	if start > seqLen {
		start = seqLen
	}
	left := Interval{Chrom: cds.Transcript, Start: 0, End: start, Strand: cds.Strand}
	right := Interval{Chrom: cds.Transcript, Start: end, End: seqLen, Strand: cds.Strand}
	if cds.Strand == '-' {
		five, three = right, left
	} else {
		five, three = left, right
	}
	five.Name = cds.Transcript + ".5UTR"
	three.Name = cds.Transcript + ".3UTR"
	return five, three
}

// Regions computes all 5' and 3' UTR intervals of at least minLen bases,
// ordered by transcript ID. Transcripts missing from lengths are skipped:
// the predictor saw a sequence the FASTA index did not, which only happens
// when inputs are mismatched, and the extractor could not fetch them anyway.
func Regions(cds map[string]CDS, lengths map[string]int, minLen int) (five, three []Interval) {
	ids := make([]string, 0, len(cds))
	for id := range cds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		seqLen, ok := lengths[id]
		if !ok {
			continue
		}
		f, t := UTRs(cds[id], seqLen)
		if f.Len() >= minLen {
			five = append(five, f)
		}
		if t.Len() >= minLen {
			three = append(three, t)
		}
	}
	return five, three
}

// WriteBED writes intervals as BED6 (chrom, start, end, name, score, strand).
func WriteBED(w io.Writer, intervals []Interval) error {
	bw := bufio.NewWriter(w)
	for _, iv := range intervals {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%s\t0\t%c\n",
			iv.Chrom, iv.Start, iv.End, iv.Name, iv.Strand); err != nil {
			return err
		}
	}
	return bw.Flush()
}
