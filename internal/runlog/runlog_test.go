package runlog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/utrpipe/utrpipe/pipeline"
)

func TestLogger_StreamSplit(t *testing.T) {
	var out, errBuf bytes.Buffer
	l := New(&out, &errBuf)

	l.Infof("trimming %s", "SRR123")
	l.Cmdf("trimmomatic", []string{"SE", "-threads", "4"})
	l.Errorf("assembly failed")

	if !strings.Contains(out.String(), "INFO  trimming SRR123") {
		t.Errorf("stdout missing info line: %q", out.String())
	}
	if !strings.Contains(out.String(), "CMD   trimmomatic SE -threads 4") {
		t.Errorf("stdout missing cmd line: %q", out.String())
	}
	if strings.Contains(out.String(), "ERROR") {
		t.Errorf("error leaked to stdout: %q", out.String())
	}
	if !strings.Contains(errBuf.String(), "ERROR assembly failed") {
		t.Errorf("stderr missing error line: %q", errBuf.String())
	}
}

func TestObserver_Lines(t *testing.T) {
	var out, errBuf bytes.Buffer
	obs := &Observer{Log: New(&out, &errBuf)}

	if err := obs.BeforeRun("run-1", "assembly", []pipeline.Item{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := obs.StageSkipped("run-1", "A", "download"); err != nil {
		t.Fatal(err)
	}
	if err := obs.AfterStage("run-1", "A", "trim", nil, 3*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := obs.AfterStage("run-1", "", "merge", errors.New("boom"), time.Second); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{
		"run run-1 started (assembly, 2 items)",
		"A.download: checkpoint found, skipping",
		"A.trim: done in 3s",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q in %q", want, got)
		}
	}
	// Finalizer failure: bare stage name, error stream.
	if !strings.Contains(errBuf.String(), "merge: failed after 1s: boom") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}
