package format

import (
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	originalLabel    = "(original)"
	reformattedLabel = "(reformatted)"
	diffContext      = 3
)

// noNewlineMarker follows a diff line whose source line had no newline.
const noNewlineMarker = "\\ No newline at end of file\n"

// MakeDiff returns the unified diff between the original and reformatted
// lines of path. It returns nil when both sides are identical. A final line
// without a newline differs from the same line with one, and is rendered
// with the "\ No newline at end of file" marker.
func MakeDiff(path string, original, reformatted []string) ([]string, error) {
	if slices.Equal(original, reformatted) {
		return nil, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        markUnterminated(original),
		B:        markUnterminated(reformatted),
		FromFile: path,
		FromDate: originalLabel,
		ToFile:   path,
		ToDate:   reformattedLabel,
		Context:  diffContext,
	})
	if err != nil {
		return nil, err
	}
	return splitLines(text), nil
}

// markUnterminated returns lines with a final line lacking a newline
// terminated and followed by the marker, as one element so the pair is
// compared and printed together.
func markUnterminated(lines []string) []string {
	last := len(lines) - 1
	if last < 0 || strings.HasSuffix(lines[last], "\n") {
		return lines
	}
	out := slices.Clone(lines)
	out[last] += "\n" + noNewlineMarker
	return out
}

// splitLines splits s after each newline. A final line without a newline is
// kept as it is.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}
	return lines
}
