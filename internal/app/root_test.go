package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/run-clang-format/internal/config"
	"github.com/andyballingall/run-clang-format/internal/format"
	"github.com/andyballingall/run-clang-format/internal/fs"
	"github.com/andyballingall/run-clang-format/internal/repo"
)

type cmdResult struct {
	status int
	stdout string
	stderr string
}

// runMocked runs the command line with mgr in place of the real manager.
func runMocked(t *testing.T, mgr Manager, env fs.EnvProvider, args ...string) cmdResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	status := run(context.Background(), append([]string{"run-clang-format"}, args...),
		&stdout, &stderr, env, &LazyManager{inner: mgr})
	return cmdResult{status: status, stdout: stdout.String(), stderr: stderr.String()}
}

// captureCheck expects a single Check call and returns the request it received.
func captureCheck(mgr *MockManager, status format.Status) *Request {
	var got Request
	mgr.On("Check", mock.Anything, mock.Anything).Return(status).Run(func(args mock.Arguments) {
		got, _ = args.Get(1).(Request)
	}).Once()
	return &got
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		res := runMocked(t, mgr, fs.MapEnvProvider{}, "--help")
		assert.Equal(t, 0, res.status)
		assert.Contains(t, res.stdout, "--clang-format-executable")
		assert.Contains(t, res.stdout, "auto|always|never")
		mgr.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()
		res := runMocked(t, &MockManager{}, fs.MapEnvProvider{}, "--version")
		assert.Equal(t, 0, res.status)
		assert.Contains(t, res.stdout, Version)
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		res := runMocked(t, &MockManager{}, fs.MapEnvProvider{}, "--nope")
		assert.Equal(t, 2, res.status)
		assert.Equal(t,
			"run-clang-format: error: unknown flag: --nope (see run-clang-format --help)\n",
			res.stderr)
	})

	t.Run("invalid color", func(t *testing.T) {
		t.Parallel()
		res := runMocked(t, &MockManager{}, fs.MapEnvProvider{}, "--color", "sometimes")
		assert.Equal(t, 2, res.status)
		assert.Contains(t, res.stderr, `invalid color mode "sometimes"`)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		got := captureCheck(mgr, format.StatusSuccess)

		res := runMocked(t, mgr, fs.MapEnvProvider{}, "a.cpp")
		assert.Equal(t, 0, res.status)
		mgr.AssertExpectations(t)

		assert.Equal(t, config.Default(), got.Config)
		assert.Equal(t, []string{"a.cpp"}, got.Inputs)
		assert.False(t, got.InPlace)
		assert.False(t, got.DryRun)
		assert.Empty(t, got.ChangedSince)
	})

	t.Run("flags reach the request", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		got := captureCheck(mgr, format.StatusDiff)

		res := runMocked(t, mgr, fs.MapEnvProvider{},
			"--clang-format-executable", "clang-format-18",
			"--extensions", "cpp, h",
			"-r", "-i", "-d", "-q",
			"-j", "3",
			"--color", "never",
			"-e", "third_party", "-e", "*.pb.cc",
			"--style", "Google",
			"--files", "x.cpp,y.cpp",
			"--changed-since", "origin/main",
			"src", "include",
		)
		assert.Equal(t, 1, res.status)

		cfg := got.Config
		assert.Equal(t, "clang-format-18", cfg.Executable)
		assert.Equal(t, []string{"cpp", "h"}, cfg.Extensions)
		assert.True(t, cfg.Recursive)
		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, config.ColourNever, cfg.Colour)
		assert.Equal(t, []string{"third_party", "*.pb.cc"}, cfg.Exclude)
		assert.Equal(t, "Google", cfg.Style)
		assert.True(t, got.InPlace)
		assert.True(t, got.DryRun)
		assert.True(t, got.Quiet)
		assert.Equal(t, []string{"src", "include", "x.cpp", "y.cpp"}, got.Inputs)
		assert.Equal(t, repo.Revision("origin/main"), got.ChangedSince)
	})

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeFile(t, filepath.Join(t.TempDir(), "rcf.yml"), `
style: Google
jobs: 3
recursive: true
exclude: [vendor]
`)
		mgr := &MockManager{}
		got := captureCheck(mgr, format.StatusSuccess)

		res := runMocked(t, mgr, fs.MapEnvProvider{config.EnvFile: cfgPath}, "--style", "LLVM", "-e", "gen")
		assert.Equal(t, 0, res.status)

		assert.Equal(t, "LLVM", got.Config.Style)
		assert.Equal(t, 3, got.Config.Jobs)
		assert.True(t, got.Config.Recursive)
		assert.Equal(t, []string{"vendor", "gen"}, got.Config.Exclude)
	})

	t.Run("config flag beats environment", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		envPath := writeFile(t, filepath.Join(dir, "env.yml"), "style: Mozilla\n")
		flagPath := writeFile(t, filepath.Join(dir, "flag.yml"), "style: WebKit\n")
		mgr := &MockManager{}
		got := captureCheck(mgr, format.StatusSuccess)

		runMocked(t, mgr, fs.MapEnvProvider{config.EnvFile: envPath}, "--config", flagPath)
		assert.Equal(t, "WebKit", got.Config.Style)
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()
		cfgPath := writeFile(t, filepath.Join(t.TempDir(), "rcf.yml"), "jobs: lots\n")
		mgr := &MockManager{}

		res := runMocked(t, mgr, fs.MapEnvProvider{config.EnvFile: cfgPath})
		assert.Equal(t, 2, res.status)
		assert.Equal(t,
			"run-clang-format: error: "+cfgPath+" is not a valid config file: invalid value at /jobs\n",
			res.stderr)
		mgr.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "missing.yml")
		res := runMocked(t, &MockManager{}, fs.MapEnvProvider{}, "--config", missing)
		assert.Equal(t, 2, res.status)
		assert.Contains(t, res.stderr, "config file not found: "+missing)
	})

	t.Run("negative jobs", func(t *testing.T) {
		t.Parallel()
		res := runMocked(t, &MockManager{}, fs.MapEnvProvider{}, "-j", "-1")
		assert.Equal(t, 2, res.status)
		assert.Contains(t, res.stderr, "invalid number of jobs -1")
	})

	t.Run("watch", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		mgr.On("Watch", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		res := runMocked(t, mgr, fs.MapEnvProvider{}, "--watch", "src")
		assert.Equal(t, 0, res.status)
		mgr.AssertExpectations(t)
		mgr.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("watch failure", func(t *testing.T) {
		t.Parallel()
		mgr := &MockManager{}
		mgr.On("Watch", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no inotify")).Once()

		res := runMocked(t, mgr, fs.MapEnvProvider{}, "-w")
		assert.Equal(t, 2, res.status)
		assert.Equal(t, "run-clang-format: error: no inotify\n", res.stderr)
	})

	t.Run("prog name comes from args", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		status := run(context.Background(), []string{"/usr/local/bin/rcf", "--bogus"},
			&stdout, &stderr, fs.MapEnvProvider{}, &LazyManager{inner: &MockManager{}})
		assert.Equal(t, 2, status)
		assert.Contains(t, stderr.String(), "rcf: error: unknown flag: --bogus")
	})
}

func TestRootCmd_Debug(t *testing.T) {
	t.Parallel()

	mgr := &MockManager{}
	mgr.On("Check", mock.Anything, mock.Anything).Return(format.StatusSuccess)
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelWarn)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&LazyManager{inner: mgr}, ll, &stdout, &stderr, fs.MapEnvProvider{}, &runState{})
	cmd.SetArgs([]string{"--debug"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, slog.LevelDebug, ll.Level())
}
