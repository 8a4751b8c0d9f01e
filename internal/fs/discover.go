package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExtensions are the file extensions searched when none are configured.
var DefaultExtensions = []string{"c", "h", "C", "H", "cpp", "hpp", "cc", "hh", "c++", "h++", "cxx", "hxx"}

// Filter decides which files found while descending into a directory are
// formatted. Exclude patterns use gitignore syntax.
type Filter struct {
	extensions []string
	patterns   []string
	exclude    *ignore.GitIgnore
}

// NewFilter creates a Filter. Extensions are given without the leading dot
// and compared case-sensitively.
func NewFilter(extensions, exclude []string) *Filter {
	return &Filter{
		extensions: extensions,
		patterns:   exclude,
		exclude:    ignore.CompileIgnoreLines(exclude...),
	}
}

// Excluded reports whether path matches an exclude pattern.
func (f *Filter) Excluded(path string) bool {
	if len(f.patterns) == 0 {
		return false
	}
	return f.exclude.MatchesPath(path)
}

// Accept reports whether path has a searched extension and is not excluded.
func (f *Filter) Accept(path string) bool {
	return slices.Contains(f.extensions, Extension(path)) && !f.Excluded(path)
}

// Extension returns the extension of path without its dot. Leading dots of
// the base name do not start an extension, so ".clang-format" has none.
func Extension(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}

// Discover expands inputs into the list of files to format. When recursive
// is set, directories are walked and their files kept if f accepts them.
// Every other input is passed through untouched, so that a missing file is
// reported by the formatter run rather than silently dropped.
func Discover(inputs []string, recursive bool, f *Filter) []string {
	var out []string
	for _, in := range inputs {
		if !recursive || !isDir(in) {
			out = append(out, in)
			continue
		}
		_ = filepath.WalkDir(in, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped.
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if f.Accept(path) {
				out = append(out, path)
			}
			return nil
		})
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
