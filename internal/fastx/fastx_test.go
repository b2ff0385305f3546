package fastx

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestReader_WrappedAndUnwrapped(t *testing.T) {
	in := ">TRINITY_DN0_c0_g1_i1 len=12\nACGTACG\nTACGT\n\n>short\nAC\n"
	r := NewReader(strings.NewReader(in))

	first, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "TRINITY_DN0_c0_g1_i1" || first.Desc != "len=12" {
		t.Errorf("first header = %q %q", first.ID, first.Desc)
	}
	if string(first.Seq) != "ACGTACGTACGT" {
		t.Errorf("first seq = %q", first.Seq)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != "short" || string(second.Seq) != "AC" {
		t.Errorf("second = %+v", second)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestReader_DataBeforeHeader(t *testing.T) {
	r := NewReader(strings.NewReader("ACGT\n>x\nAC\n"))
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestWrite_WrapsAt60(t *testing.T) {
	var buf bytes.Buffer
	seq := strings.Repeat("A", 130)
	if err := Write(&buf, &Record{ID: "x", Seq: []byte(seq)}, 0); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 seq lines", len(lines))
	}
	if len(lines[1]) != 60 || len(lines[2]) != 60 || len(lines[3]) != 10 {
		t.Errorf("wrap widths = %d/%d/%d", len(lines[1]), len(lines[2]), len(lines[3]))
	}
}

func TestPrefixIDs(t *testing.T) {
	in := ">c1 len=4\nACGT\n>c2\nGGCC\n"
	var out bytes.Buffer
	n, err := PrefixIDs(&out, strings.NewReader(in), "liver")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	got := out.String()
	if !strings.Contains(got, ">liver_c1 len=4\n") || !strings.Contains(got, ">liver_c2\n") {
		t.Errorf("output = %q", got)
	}
}

func TestPrefixIDs_EmptyInputWritesNothing(t *testing.T) {
	var out bytes.Buffer
	n, err := PrefixIDs(&out, strings.NewReader(""), "x")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || out.Len() != 0 {
		t.Errorf("n=%d out=%q, want empty", n, out.String())
	}
}

func TestLengths(t *testing.T) {
	in := ">a\nACGT\nAC\n>b desc\nG\n"
	lengths, err := Lengths(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if lengths["a"] != 6 || lengths["b"] != 1 {
		t.Errorf("lengths = %v", lengths)
	}
}
