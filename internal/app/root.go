// Package app wires the run-clang-format command line to the formatter pipeline.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andyballingall/run-clang-format/internal/config"
	"github.com/andyballingall/run-clang-format/internal/format"
	"github.com/andyballingall/run-clang-format/internal/fs"
	"github.com/andyballingall/run-clang-format/internal/repo"
	"github.com/andyballingall/run-clang-format/internal/validator"
)

// Version is the current version of run-clang-format, set at build time.
var Version = "dev"

var LongDescription = `
run-clang-format runs clang-format over many files in parallel and prints a
unified diff for every file that is not formatted.

Exit status is 0 if every file is formatted, 1 if any file would change, and
2 if anything went wrong.
`

// rootFlags holds the values of the command line flags.
type rootFlags struct {
	executable   string
	extensions   listValue
	recursive    bool
	dryRun       bool
	inPlace      bool
	files        []string
	quiet        bool
	jobs         int
	colour       colourValue
	exclude      []string
	style        string
	ignoreFile   pathValue
	includeFile  pathValue
	configPath   pathValue
	changedSince string
	watch        bool
	debug        bool
	logFile      pathValue
}

// runState carries what a run produces beyond an error.
type runState struct {
	prog    string
	status  format.Status
	closers []io.Closer
}

func (s *runState) close() {
	for _, c := range s.closers {
		_ = c.Close()
	}
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(
	lazy *LazyManager,
	ll *slog.LevelVar,
	stdout, stderr io.Writer,
	env fs.EnvProvider,
	st *runState,
) *cobra.Command {
	f := &rootFlags{
		executable:  config.DefaultExecutable,
		extensions:  listValue(fs.DefaultExtensions),
		colour:      colourValue(config.ColourAuto),
		ignoreFile:  config.DefaultIgnoreFile,
		includeFile: config.DefaultIncludeFile,
	}

	rootCmd := &cobra.Command{
		Use:           "run-clang-format [flags] [file ...]",
		Short:         "Run clang-format over many files in parallel",
		Long:          LongDescription,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if f.debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logPath := string(f.logFile)
			if logPath == "" {
				logPath, _ = env.Lookup(LogEnvVar)
			}
			logger, closer, err := setupLogger(stderr, ll, logPath, uuid.NewString())
			if closer != nil {
				st.closers = append(st.closers, closer)
			}
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			runner := format.NewExecRunner(stderr)
			lazy.SetInner(NewCLIManager(logger, runner, repo.NewCLIGitter(""), stdout, stderr, st.prog))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(cmd, f, args, env)
			if err != nil {
				st.status = trouble(stdout, stderr, st.prog, config.ColourMode(f.colour), err)
				return nil
			}

			if !f.watch {
				st.status = lazy.Check(cmd.Context(), req)
				return nil
			}
			if err = lazy.Watch(cmd.Context(), req, nil); err != nil {
				st.status = trouble(stdout, stderr, st.prog, req.Config.Colour, err)
			}
			return nil
		},
	}

	fl := rootCmd.Flags()
	fl.StringVar(&f.executable, "clang-format-executable", f.executable, "path to the clang-format executable")
	fl.Var(&f.extensions, "extensions", "comma separated list of file extensions")
	fl.BoolVarP(&f.recursive, "recursive", "r", false, "run recursively over directories")
	fl.BoolVarP(&f.dryRun, "dry-run", "d", false, "just print the formatter invocations")
	fl.BoolVarP(&f.inPlace, "in-place", "i", false, "format files instead of printing differences")
	fl.StringSliceVar(&f.files, "files", nil, "additional files to format")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "disable output, useful for the exit code")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "run N clang-format jobs in parallel (default number of cpus + 1)")
	fl.Var(&f.colour, "color", "show colored diff")
	fl.StringArrayVarP(&f.exclude, "exclude", "e", nil,
		"exclude paths matching the given gitignore-style pattern from recursive search")
	fl.StringVar(&f.style, "style", "", "formatting style to apply (LLVM, Google, Chromium, Mozilla, WebKit)")
	fl.Var(&f.ignoreFile, "ignore-file", "file of exclude patterns")
	fl.Var(&f.includeFile, "include-file", "file of additional paths to format")
	fl.Var(&f.configPath, "config", "config file (default "+config.DefaultFile+", env "+config.EnvFile+")")
	fl.StringVar(&f.changedSince, "changed-since", "", "only format files changed since the given git revision")
	fl.BoolVarP(&f.watch, "watch", "w", false, "keep running and re-check files as they change")
	fl.BoolVar(&f.debug, "debug", false, "enable debug logging")
	fl.Var(&f.logFile, "log-file", "write JSON logs to this file (env "+LogEnvVar+")")

	return rootCmd
}

// buildRequest loads the config file and applies the flags given on the
// command line over it.
func buildRequest(cmd *cobra.Command, f *rootFlags, args []string, env fs.EnvProvider) (Request, error) {
	path, explicit := config.Path(string(f.configPath), env)
	cfg, err := config.Load(path, explicit, validator.NewCompiler())
	if err != nil {
		return Request{}, err
	}

	changed := cmd.Flags().Changed
	if changed("clang-format-executable") {
		cfg.Executable = f.executable
	}
	if changed("extensions") {
		cfg.Extensions = []string(f.extensions)
	}
	if changed("recursive") {
		cfg.Recursive = f.recursive
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("color") {
		cfg.Colour = config.ColourMode(f.colour)
	}
	if changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}
	if changed("style") {
		cfg.Style = f.style
	}
	if changed("ignore-file") {
		cfg.IgnoreFile = string(f.ignoreFile)
	}
	if changed("include-file") {
		cfg.IncludeFile = string(f.includeFile)
	}
	if err = cfg.Validate(); err != nil {
		return Request{}, err
	}

	return Request{
		Config:       cfg,
		Inputs:       slices.Concat(args, f.files),
		InPlace:      f.inPlace,
		DryRun:       f.dryRun,
		Quiet:        f.quiet,
		ChangedSince: repo.Revision(strings.TrimSpace(f.changedSince)),
	}, nil
}

// trouble reports err as "<prog>: error: <err>" and returns StatusTrouble.
func trouble(stdout, stderr io.Writer, prog string, mode config.ColourMode, err error) format.Status {
	agg := format.NewAggregator(stdout, stderr, prog, nil)
	agg.ColourStderr = useColour(mode, stderr)
	agg.Trouble(err.Error())
	return format.StatusTrouble
}

// usageError adds a hint to errors cobra reports for bad arguments.
func usageError(prog string, err error) string {
	return fmt.Sprintf("%s (see %s --help)", err, prog)
}
