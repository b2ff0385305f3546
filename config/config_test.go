package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_StringAndStructToolRefs(t *testing.T) {
	p, err := Parse([]byte(`
threads: 12
memory_gb: 32
min_utr_len: 25
blast_db: /dbs/uniprot_sprot
tools:
  Trinity: /opt/trinity/Trinity
  trimmomatic:
    path: /usr/local/bin/trimmomatic
    extra: [LEADING:3, TRAILING:3]
`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Threads != 12 || p.MemoryGB != 32 || p.MinUTRLen != 25 {
		t.Errorf("defaults = %+v", p)
	}
	if p.BlastDB != "/dbs/uniprot_sprot" {
		t.Errorf("blast_db = %q", p.BlastDB)
	}

	bin, extra := p.Resolve("Trinity")
	if bin != "/opt/trinity/Trinity" || extra != nil {
		t.Errorf("Trinity -> %q %v", bin, extra)
	}
	bin, extra = p.Resolve("trimmomatic")
	if bin != "/usr/local/bin/trimmomatic" || !reflect.DeepEqual(extra, []string{"LEADING:3", "TRAILING:3"}) {
		t.Errorf("trimmomatic -> %q %v", bin, extra)
	}
}

func TestResolve_FallsBackToDefaultName(t *testing.T) {
	p, err := Parse([]byte("tools:\n  seqtk:\n    extra: [-l, \"0\"]\n"))
	if err != nil {
		t.Fatal(err)
	}
	bin, extra := p.Resolve("seqtk")
	if bin != "seqtk" || len(extra) != 2 {
		t.Errorf("seqtk -> %q %v", bin, extra)
	}
	bin, extra = p.Resolve("fastq-dump")
	if bin != "fastq-dump" || extra != nil {
		t.Errorf("unlisted tool -> %q %v", bin, extra)
	}
}

func TestResolve_NilProfile(t *testing.T) {
	var p *Profile
	bin, extra := p.Resolve("Trinity")
	if bin != "Trinity" || extra != nil {
		t.Errorf("nil profile -> %q %v", bin, extra)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("threads: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Threads != 4 {
		t.Errorf("threads = %d", p.Threads)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("tools: [not, a, map]")); err == nil {
		t.Fatal("expected error for malformed profile")
	}
}
