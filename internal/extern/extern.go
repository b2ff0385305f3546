// Package extern runs the external bioinformatics tools the pipelines wrap.
// Every tool is an opaque process with a command-line contract; this package
// only builds, announces, and waits on those processes.
package extern

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command is one external tool invocation. Stdout, when set, receives the
// tool's standard output (used for tools that emit their result on stdout,
// e.g. seqtk subseq); otherwise stdout passes through to the orchestrator's
// own stdout. Stderr always passes through.
type Command struct {
	Name   string
	Args   []string
	Dir    string    // working directory; empty = inherit
	Stdout io.Writer // capture destination; nil = inherit
}

// Runner executes Commands. The process runner is ExecRunner; tests swap in
// fakes that fabricate tool outputs.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// AnnounceFunc is called with the command line just before it runs.
type AnnounceFunc func(name string, args []string)

// ExecRunner runs commands via os/exec, blocking until the process exits.
type ExecRunner struct {
	Announce AnnounceFunc // optional
}

// Run implements Runner. A non-zero exit comes back as an error wrapping the
// exec error, with the tool name for context.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Announce != nil {
		r.Announce(cmd.Name, cmd.Args)
	}
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

// MissingToolsError lists required external tools not found on PATH. All
// missing tools are collected so the user fixes their environment once, not
// one tool per failed invocation.
type MissingToolsError struct {
	Tools []string
}

func (e *MissingToolsError) Error() string {
	return fmt.Sprintf("required tools not found on PATH: %s", strings.Join(e.Tools, ", "))
}

// Preflight checks that every named tool resolves on PATH and returns a
// MissingToolsError naming all that do not.
func Preflight(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &MissingToolsError{Tools: missing}
}
