// Package fastx contains the minimal FASTA plumbing the pipelines need:
// streaming read, record-ID prefixing for the merge finalizer, and a
// sequence-length index for UTR coordinate clamping. Parsing is deliberately
// simple and conservative; everything heavier stays in external tools.
package fastx

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is a single FASTA record. ID is the first whitespace-delimited
// token of the header; Desc is the remainder (may be empty).
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Reader streams records from FASTA input with arbitrary line wrapping.
type Reader struct {
	s       *bufio.Scanner
	pending string // next header line, already consumed
	started bool
	err     error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{s: s}
}

// Next returns the next record, or io.EOF when input is exhausted.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	header := r.pending
	r.pending = ""
	for header == "" {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				r.err = err
			} else {
				r.err = io.EOF
			}
			return nil, r.err
		}
		line := strings.TrimSpace(r.s.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ">") {
			if !r.started {
				r.err = fmt.Errorf("fasta: sequence data before first header")
				return nil, r.err
			}
			continue
		}
		header = line
	}
	r.started = true

	rec := &Record{}
	fields := strings.SplitN(strings.TrimPrefix(header, ">"), " ", 2)
	rec.ID = fields[0]
	if len(fields) == 2 {
		rec.Desc = fields[1]
	}
	for r.s.Scan() {
		line := strings.TrimSpace(r.s.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			r.pending = line
			return rec, nil
		}
		rec.Seq = append(rec.Seq, line...)
	}
	if err := r.s.Err(); err != nil {
		r.err = err
		return nil, err
	}
	r.err = io.EOF
	return rec, nil
}

// Write writes rec to w, wrapping sequence lines at width (<=0 means 60).
func Write(w io.Writer, rec *Record, width int) error {
	if width <= 0 {
		width = 60
	}
	header := ">" + rec.ID
	if rec.Desc != "" {
		header += " " + rec.Desc
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for start := 0; start < len(rec.Seq); start += width {
		end := start + width
		if end > len(rec.Seq) {
			end = len(rec.Seq)
		}
		if _, err := fmt.Fprintf(w, "%s\n", rec.Seq[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// PrefixIDs copies FASTA records from src to dst, rewriting each record ID
// to "<prefix>_<oldID>" so artifacts from different runs stay
// distinguishable when pooled. Returns the number of records written.
func PrefixIDs(dst io.Writer, src io.Reader, prefix string) (int, error) {
	r := NewReader(src)
	n := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		rec.ID = prefix + "_" + rec.ID
		if err := Write(dst, rec, 0); err != nil {
			return n, err
		}
		n++
	}
}

// Lengths indexes sequence length by record ID.
func Lengths(src io.Reader) (map[string]int, error) {
	r := NewReader(src)
	lengths := make(map[string]int)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return lengths, nil
		}
		if err != nil {
			return nil, err
		}
		lengths[rec.ID] = len(rec.Seq)
	}
}
