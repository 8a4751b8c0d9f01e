package repo

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// CLIGitter implements Gitter with the git command line client.
type CLIGitter struct {
	dir string
}

var _ Gitter = (*CLIGitter)(nil)

// NewCLIGitter creates a CLIGitter that runs git in dir. An empty dir means
// the current working directory.
func NewCLIGitter(dir string) *CLIGitter {
	return &CLIGitter{dir: dir}
}

func (g *CLIGitter) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w (output: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(errOut.String()))
	}
	return out.String(), nil
}

func (g *CLIGitter) Root() (string, error) {
	out, err := g.git("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to find git root: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (g *CLIGitter) ChangedFiles(rev Revision) ([]string, error) {
	root, err := g.Root()
	if err != nil {
		return nil, err
	}

	// Validate rev up front so a typo is not mistaken for a path.
	if _, err = g.git("rev-parse", "--verify", "--quiet", rev.String()+"^{commit}"); err != nil {
		return nil, fmt.Errorf("unknown revision %q: %w", rev, err)
	}

	// git prints paths relative to the root for both commands below.
	changed, err := g.git("-C", root, "-c", "core.quotePath=false", "diff", "--name-only", "--diff-filter=d", rev.String(), "--")
	if err != nil {
		return nil, err
	}
	untracked, err := g.git("-C", root, "-c", "core.quotePath=false", "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, out := range []string{changed, untracked} {
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			paths = append(paths, filepath.Join(root, filepath.FromSlash(line)))
		}
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}
