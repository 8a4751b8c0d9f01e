package format

import "strings"

const (
	colReset   = "\x1b[0m"
	colBold    = "\x1b[1m"
	colRed     = "\x1b[31m"
	colGreen   = "\x1b[32m"
	colCyan    = "\x1b[36m"
	colBoldRed = colBold + colRed
)

// cs wraps s in the given colour. A trailing newline is kept outside the
// escape sequence so the reset happens on the same line.
func cs(c, s string) string {
	body, nl := strings.CutSuffix(s, "\n")
	out := c + body + colReset
	if nl {
		out += "\n"
	}
	return out
}

// ColouriseDiff returns diff lines with terminal colour escapes: file
// headers bold, hunk headers cyan, additions green and removals red.
func ColouriseDiff(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			out[i] = cs(colBold, line)
		case strings.HasPrefix(line, "@@ "):
			out[i] = cs(colCyan, line)
		case strings.HasPrefix(line, "+"):
			out[i] = cs(colGreen, line)
		case strings.HasPrefix(line, "-"):
			out[i] = cs(colRed, line)
		default:
			out[i] = line
		}
	}
	return out
}
