package fs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ListFromFile reads a newline-delimited list of patterns or paths. Lines
// starting with '#' and blank lines are skipped, and trailing whitespace is
// trimmed. A missing file yields an empty list.
func ListFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimRight(line, " \t\r\f\v")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}
