package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/andyballingall/run-clang-format/internal/format"
	"github.com/andyballingall/run-clang-format/internal/fs"
)

// Run executes the command line in args and returns the process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, envProvider fs.EnvProvider) int {
	// Local lazy instance ensures t.Parallel() safety
	return run(ctx, args, stdout, stderr, envProvider, &LazyManager{})
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
	lazy *LazyManager,
) int {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelWarn)

	if envProvider == nil {
		envProvider = fs.NewEnvProvider()
	}

	st := &runState{prog: "run-clang-format"}
	if len(args) > 0 {
		st.prog = filepath.Base(args[0])
		args = args[1:] // Skip the program name
	}
	defer st.close()

	rootCmd := NewRootCmd(lazy, logLevel, stdout, stderr, envProvider, st)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors is set, so bad arguments are reported here.
		format.NewAggregator(stdout, stderr, st.prog, nil).Trouble(usageError(st.prog, err))
		return int(format.StatusTrouble)
	}
	return int(st.status)
}
