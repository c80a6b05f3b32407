// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package converter launches the external mesh exporter.
// The exporter is an opaque collaborator: it receives the source and
// destination paths as its two positional arguments and writes the
// destination file itself.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Outcome describes a finished converter process.
type Outcome struct {
	// ExitCode is the process exit status. A non-zero value is reported
	// but does not make Convert return an error.
	ExitCode int

	// Duration is the wall time between launch and exit.
	Duration time.Duration
}

// Converter regenerates a derived artifact from a source asset.
type Converter interface {
	// Convert runs one conversion and blocks until it completes. It returns
	// an error only when the conversion could not be started or waited on.
	Convert(ctx context.Context, source, output string) (Outcome, error)
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// External runs a converter executable as a child process.
type External struct {
	bin    string
	stdout io.Writer
	stderr io.Writer
	exec   executor
	now    func() time.Time
}

// Option customizes an External converter.
type Option func(*External)

// WithOutput redirects the child's stdout and stderr. By default both are
// inherited from the current process.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *External) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewExternal returns a converter that runs bin with (source, output).
func NewExternal(bin string, opts ...Option) *External {
	return newExternal(bin, defaultExec, opts...)
}

func newExternal(bin string, exec executor, opts ...Option) *External {
	e := &External{
		bin:    bin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		exec:   exec,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether the converter executable can be found.
// A path containing a separator is checked directly, a bare name is
// searched on PATH.
func (e *External) Available() error {
	if _, err := e.exec.LookPath(e.bin); err != nil {
		return fmt.Errorf("converter %s not found: %w", e.bin, err)
	}
	return nil
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// Convert runs the converter and waits for it to exit. The process is not
// bound to ctx: a conversion in flight always runs to completion, and
// cancellation takes effect before the next one.
func (e *External) Convert(ctx context.Context, source, output string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	start := e.now()
	err := e.exec.Run(e.bin, []string{source, output}, e.stdout, e.stderr)
	out := Outcome{Duration: e.now().Sub(start)}

	var exitErr exitCoder
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return out, fmt.Errorf("running converter %s: %w", e.bin, err)
	}
}
