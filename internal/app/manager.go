package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/andyballingall/run-clang-format/internal/config"
	"github.com/andyballingall/run-clang-format/internal/format"
	"github.com/andyballingall/run-clang-format/internal/fs"
	"github.com/andyballingall/run-clang-format/internal/repo"
)

// Request describes one run over a set of inputs.
type Request struct {
	Config       *config.Config
	Inputs       []string
	InPlace      bool
	DryRun       bool
	Quiet        bool
	ChangedSince repo.Revision
}

func (r Request) options() format.Options {
	return format.Options{
		Executable: r.Config.Executable,
		Style:      r.Config.Style,
		InPlace:    r.InPlace,
		DryRun:     r.DryRun,
	}
}

// Manager runs the formatter over the files a Request selects.
type Manager interface {
	// Check formats every selected file once and returns the exit status.
	Check(ctx context.Context, req Request) format.Status
	// Watch runs Check, then re-checks files as they change until ctx is
	// cancelled. ready, if not nil, is closed once changes are being watched.
	Watch(ctx context.Context, req Request, ready chan struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Check(ctx context.Context, req Request) format.Status {
	return l.check().Check(ctx, req)
}

func (l *LazyManager) Watch(ctx context.Context, req Request, ready chan struct{}) error {
	return l.check().Watch(ctx, req, ready)
}

// ProcessRunner runs the formatter. *format.ExecRunner is the production
// implementation.
type ProcessRunner interface {
	format.Runner
	CheckVersion(executable string) error
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger *slog.Logger
	runner ProcessRunner
	gitter repo.Gitter
	stdout io.Writer
	stderr io.Writer
	prog   string
}

func NewCLIManager(l *slog.Logger, r ProcessRunner, g repo.Gitter, stdout, stderr io.Writer, prog string) *CLIManager {
	return &CLIManager{
		logger: l,
		runner: r,
		gitter: g,
		stdout: stdout,
		stderr: stderr,
		prog:   prog,
	}
}

func (m *CLIManager) aggregator(req Request) *format.Aggregator {
	agg := format.NewAggregator(m.stdout, m.stderr, m.prog, m.logger)
	agg.Quiet = req.Quiet
	agg.ColourStdout = useColour(req.Config.Colour, m.stdout)
	agg.ColourStderr = useColour(req.Config.Colour, m.stderr)
	return agg
}

func (m *CLIManager) Check(ctx context.Context, req Request) format.Status {
	agg := m.aggregator(req)

	if err := m.runner.CheckVersion(req.Config.Executable); err != nil {
		agg.Trouble(err.Error())
		return format.StatusTrouble
	}
	return m.checkFiles(ctx, agg, req)
}

func (m *CLIManager) checkFiles(ctx context.Context, agg *format.Aggregator, req Request) format.Status {
	files, err := m.selectFiles(req)
	if err != nil {
		agg.Trouble(err.Error())
		return format.StatusTrouble
	}

	return m.run(ctx, agg, req, files)
}

func (m *CLIManager) run(ctx context.Context, agg *format.Aggregator, req Request, files []string) format.Status {
	if len(files) == 0 {
		m.logger.Debug("no files to format")
		return format.StatusSuccess
	}

	jobs := format.NewJobs(files, req.options())
	workers := format.WorkerCount(req.Config.Jobs, len(jobs))
	m.logger.Debug("dispatching jobs", "files", len(jobs), "workers", workers)

	start := time.Now()
	status, sum := agg.Consume(format.Dispatch(ctx, m.runner, jobs, workers))
	m.logger.Info("run complete",
		"status", status.String(),
		"clean", sum.Clean,
		"diffs", sum.Diffs,
		"failures", sum.Failures,
		"fatal", sum.Fatal,
		"duration", time.Since(start),
	)
	return status
}

// selectFiles resolves the inputs of req into the files to format. The
// include list is appended to the inputs, and the ignore list joins the
// exclude patterns.
func (m *CLIManager) selectFiles(req Request) ([]string, error) {
	cfg := req.Config

	ignored, err := fs.ListFromFile(cfg.IgnoreFile)
	if err != nil {
		return nil, err
	}
	included, err := fs.ListFromFile(cfg.IncludeFile)
	if err != nil {
		return nil, err
	}

	inputs := slices.Concat(req.Inputs, included)
	filter := fs.NewFilter(cfg.Extensions, slices.Concat(ignored, cfg.Exclude))
	files := fs.Discover(inputs, cfg.Recursive, filter)

	if req.ChangedSince == "" {
		return files, nil
	}
	return m.changedOnly(files, req.ChangedSince)
}

func (m *CLIManager) changedOnly(files []string, rev repo.Revision) ([]string, error) {
	if m.gitter == nil {
		return nil, errors.New("--changed-since needs a git repository")
	}
	changed, err := m.gitter.ChangedFiles(rev)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(changed))
	for _, c := range changed {
		set[c] = struct{}{}
	}

	var out []string
	for _, f := range files {
		if _, ok := set[resolve(f)]; ok {
			out = append(out, f)
		}
	}
	m.logger.Debug("restricted to changed files", "revision", rev, "before", len(files), "after", len(out))
	return out, nil
}

// resolve returns the absolute path of f with symlinks evaluated, as git
// reports it. If f cannot be resolved it is returned as an absolute path.
func resolve(f string) string {
	abs, err := filepath.Abs(f)
	if err != nil {
		return f
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func (m *CLIManager) Watch(ctx context.Context, req Request, ready chan struct{}) error {
	if err := m.runner.CheckVersion(req.Config.Executable); err != nil {
		return err
	}
	m.checkFiles(ctx, m.aggregator(req), req)

	cfg := req.Config
	ignored, err := fs.ListFromFile(cfg.IgnoreFile)
	if err != nil {
		return err
	}
	filter := fs.NewFilter(cfg.Extensions, slices.Concat(ignored, cfg.Exclude))

	roots := req.Inputs
	if len(roots) == 0 {
		roots = []string{"."}
	}

	w := format.NewWatcher(roots, filter.Accept, m.logger)
	if ready != nil {
		w.Ready = ready
	}

	err = w.Watch(ctx, func(paths []string) {
		m.logger.Info("files changed", "count", len(paths))
		agg := m.aggregator(req)
		files := paths
		if req.ChangedSince != "" {
			var cErr error
			if files, cErr = m.changedOnly(paths, req.ChangedSince); cErr != nil {
				agg.Trouble(cErr.Error())
				return
			}
		}
		m.run(ctx, agg, req, files)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// useColour reports whether output to w is coloured in the given mode.
func useColour(mode config.ColourMode, w io.Writer) bool {
	switch mode {
	case config.ColourAlways:
		return true
	case config.ColourNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
