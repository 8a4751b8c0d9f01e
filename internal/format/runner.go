package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Runner runs the formatter for a single Job. Every outcome, including
// internal faults, is reported through the Result; a panic escaping Run is
// recovered by Dispatch and reported as KindFatal.
type Runner interface {
	Run(job Job) Result
}

// Ensure the interface is satisfied.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner runs the formatter as a child process.
type ExecRunner struct {
	// stderr receives the version probe's diagnostics.
	stderr   io.Writer
	readFile func(name string) ([]byte, error)
}

// NewExecRunner creates an ExecRunner. Diagnostics from the version probe
// are written to stderr.
func NewExecRunner(stderr io.Writer) *ExecRunner {
	if stderr == nil {
		stderr = io.Discard
	}
	return &ExecRunner{
		stderr:   stderr,
		readFile: os.ReadFile,
	}
}

// Invocation returns the command line used to format path.
func (o Options) Invocation(path string) []string {
	args := []string{o.Executable}
	if o.Style != "" {
		args = append(args, "--style", o.Style)
	}
	if o.InPlace {
		args = append(args, "-i")
	}
	return append(args, path)
}

// CheckVersion runs "<executable> --version" and reports whether the
// formatter can be used at all. Its standard output is discarded.
func (r *ExecRunner) CheckVersion(executable string) error {
	invocation := []string{executable, "--version"}

	//nolint:gosec // the executable is chosen by the user
	cmd := exec.Command(invocation[0], invocation[1:]...)
	cmd.Stdout = io.Discard
	cmd.Stderr = r.stderr

	if err := cmd.Start(); err != nil {
		return startError(invocation, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitError(invocation, exitErr, nil)
		}
		return fmt.Errorf("command %q: %w", commandLine(invocation), err)
	}
	return nil
}

// Run formats job.Path and classifies the outcome.
func (r *ExecRunner) Run(job Job) Result {
	diff, stderr, output, err := r.run(job)
	res := Result{Path: job.Path, Stderr: stderr, Output: output}

	var diffErr *DiffError
	switch {
	case errors.As(err, &diffErr):
		res.Kind = KindFailure
		res.Stderr = diffErr.Stderr
		res.Err = diffErr
	case err != nil:
		res.Kind = KindFatal
		res.Err = unexpected(job.Path, err)
	case len(diff) > 0:
		res.Kind = KindDiff
		res.Diff = diff
	default:
		res.Kind = KindClean
	}
	return res
}

// run returns the diff, stderr lines and any extra output for job. Errors that
// are not a *DiffError are unexpected.
func (r *ExecRunner) run(job Job) (diff, stderr, output []string, err error) {
	data, err := r.readFile(job.Path)
	if err != nil {
		return nil, nil, nil, &DiffError{Message: err.Error(), Wrapped: err}
	}
	original := splitLines(string(data))

	invocation := job.Options.Invocation(job.Path)
	if job.Options.DryRun {
		return nil, nil, []string{strings.Join(invocation, " ") + "\n"}, nil
	}

	//nolint:gosec // the executable is chosen by the user
	cmd := exec.Command(invocation[0], invocation[1:]...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err = cmd.Start(); err != nil {
		return nil, nil, nil, startError(invocation, err)
	}
	if err = cmd.Wait(); err != nil {
		errs := splitLines(errBuf.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, errs, nil, exitError(invocation, exitErr, errs)
		}
		return nil, errs, nil, pkgerrors.WithStack(err)
	}

	errs := splitLines(errBuf.String())
	if job.Options.InPlace {
		return nil, errs, nil, nil
	}

	diff, err = MakeDiff(job.Path, original, splitLines(outBuf.String()))
	if err != nil {
		return nil, errs, nil, pkgerrors.Wrap(err, "computing diff")
	}
	return diff, errs, nil, nil
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// unexpected wraps err for a file into an UnexpectedError, attaching a stack
// trace if err does not already carry one.
func unexpected(path string, err error) *UnexpectedError {
	var st stackTracer
	if !errors.As(err, &st) {
		err = pkgerrors.WithStack(err)
	}
	cause := pkgerrors.Cause(err)
	return &UnexpectedError{
		Message: fmt.Sprintf("%s: %T: %v", path, cause, cause),
		Trace:   fmt.Sprintf("%+v\n", err),
		Wrapped: err,
	}
}

func startError(invocation []string, err error) *DiffError {
	return &DiffError{
		Message: fmt.Sprintf("Command \"%s\" failed to start: %v", commandLine(invocation), err),
		Wrapped: err,
	}
}

func exitError(invocation []string, err *exec.ExitError, stderr []string) *DiffError {
	return &DiffError{
		Message: fmt.Sprintf("Command \"%s\" returned non-zero exit status %d",
			commandLine(invocation), err.ExitCode()),
		Stderr:  stderr,
		Wrapped: err,
	}
}

// commandLine renders args as a single line, quoting arguments that are
// empty or contain whitespace or quotes.
func commandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			quoted[i] = strconv.Quote(a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
