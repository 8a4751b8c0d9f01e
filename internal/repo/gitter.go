// Package repo queries the git repository a run operates in.
package repo

// Revision is anything git accepts as a commit: a hash, tag, branch or
// expression such as HEAD~3.
type Revision string

func (r Revision) String() string { return string(r) }

// Gitter defines the git operations used to narrow a run to changed files.
type Gitter interface {
	// Root returns the top-level directory of the working tree.
	Root() (string, error)

	// ChangedFiles returns the absolute paths of files added or modified since
	// rev, including uncommitted and untracked files. Deleted files are omitted.
	ChangedFiles(rev Revision) ([]string, error)
}
