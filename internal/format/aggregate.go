package format

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
)

// Summary counts the results consumed by an Aggregator.
type Summary struct {
	Clean    int
	Diffs    int
	Failures int
	Fatal    int
}

// Total returns the number of results consumed.
func (s Summary) Total() int {
	return s.Clean + s.Diffs + s.Failures + s.Fatal
}

// Aggregator consumes results and writes them to the terminal. It is the only
// writer of stdout and stderr during a run, so output from concurrent jobs is
// never interleaved.
type Aggregator struct {
	stdout io.Writer
	stderr io.Writer
	prog   string
	logger *slog.Logger

	Quiet        bool
	ColourStdout bool
	ColourStderr bool
}

// NewAggregator creates an Aggregator. prog prefixes trouble messages.
func NewAggregator(stdout, stderr io.Writer, prog string, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{
		stdout: stdout,
		stderr: stderr,
		prog:   prog,
		logger: logger,
	}
}

// Consume reads results until the sequence ends or a KindFatal result is seen,
// and returns the most severe status observed.
func (a *Aggregator) Consume(results iter.Seq[Result]) (Status, Summary) {
	status := StatusSuccess
	var sum Summary

	for res := range results {
		switch res.Kind {
		case KindFailure:
			sum.Failures++
			a.Trouble(errorMessage(res))
			a.writeLines(a.stderr, res.Stderr)
			status = status.Raise(StatusTrouble)
			a.logger.Debug("format failed", "path", res.Path, "error", res.Err)

		case KindFatal:
			sum.Fatal++
			a.Trouble(errorMessage(res))
			var ue *UnexpectedError
			if errors.As(res.Err, &ue) && ue.Trace != "" {
				fmt.Fprint(a.stderr, ue.Trace)
			}
			a.logger.Debug("stopping at unexpected error", "path", res.Path, "error", res.Err)
			return status.Raise(StatusTrouble), sum

		default:
			a.writeLines(a.stderr, res.Stderr)
			a.writeLines(a.stdout, res.Output)
			if len(res.Diff) == 0 {
				sum.Clean++
				continue
			}
			sum.Diffs++
			if !a.Quiet {
				a.writeDiff(res.Diff)
			}
			status = status.Raise(StatusDiff)
		}
	}
	return status, sum
}

// Trouble writes "<prog>: error: <message>" to stderr.
func (a *Aggregator) Trouble(message string) {
	tag := "error:"
	if a.ColourStderr {
		tag = colBoldRed + tag + colReset
	}
	fmt.Fprintf(a.stderr, "%s: %s %s\n", a.prog, tag, message)
}

func (a *Aggregator) writeDiff(lines []string) {
	if a.ColourStdout {
		lines = ColouriseDiff(lines)
	}
	a.writeLines(a.stdout, lines)
}

func (a *Aggregator) writeLines(w io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			b.WriteByte('\n')
		}
	}
	_, _ = io.WriteString(w, b.String())
}

func errorMessage(res Result) string {
	if res.Err == nil {
		return res.Path + ": unknown error"
	}
	return res.Err.Error()
}
