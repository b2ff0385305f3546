package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("SRR123", "trim"); got != "SRR123.trim" {
		t.Errorf("Key = %q, want SRR123.trim", got)
	}
}

func TestFileStore_MarkThenCompleted(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	done, err := s.Completed("A.download")
	if err != nil || done {
		t.Fatalf("fresh store: done=%v err=%v", done, err)
	}
	if err := s.Mark("A.download"); err != nil {
		t.Fatal(err)
	}
	done, err = s.Completed("A.download")
	if err != nil || !done {
		t.Fatalf("after mark: done=%v err=%v", done, err)
	}
	// The sentinel is an empty file named <key>.done.
	info, err := os.Stat(filepath.Join(dir, "A.download.done"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("sentinel size = %d, want 0", info.Size())
	}
}

func TestFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal(err)
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Mark("B.trim"); err != nil {
		t.Fatal(err)
	}
	// A new store over the same directory sees the marker (resume).
	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	done, err := s2.Completed("B.trim")
	if err != nil || !done {
		t.Fatalf("reopened store: done=%v err=%v", done, err)
	}
}

func TestFileStore_CleanRemovesOnlySentinels(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"A.download", "A.trim", "merge"} {
		if err := s.Mark(key); err != nil {
			t.Fatal(err)
		}
	}
	// A data file in the same directory must survive Clean.
	data := filepath.Join(dir, "A_1.fastq")
	if err := os.WriteFile(data, []byte("@r1\nACGT\n+\nIIII\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Clean(); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"A.download", "A.trim", "merge"} {
		if done, _ := s.Completed(key); done {
			t.Errorf("%s still completed after Clean", key)
		}
	}
	if _, err := os.Stat(data); err != nil {
		t.Errorf("data file removed by Clean: %v", err)
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	if done, _ := s.Completed("x"); done {
		t.Fatal("fresh MemStore should be empty")
	}
	if err := s.Mark("x"); err != nil {
		t.Fatal(err)
	}
	if done, _ := s.Completed("x"); !done {
		t.Fatal("x should be completed")
	}
	if n := len(s.Keys()); n != 1 {
		t.Errorf("Keys len = %d, want 1", n)
	}
}
