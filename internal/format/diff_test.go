package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeDiff(t *testing.T) {
	t.Parallel()

	t.Run("identical content has no diff", func(t *testing.T) {
		t.Parallel()
		lines := []string{"int main() {\n", "  return 0;\n", "}\n"}
		diff, err := MakeDiff("main.cpp", lines, lines)
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("changed line", func(t *testing.T) {
		t.Parallel()
		original := []string{"a\n", "b  \n", "c\n"}
		reformatted := []string{"a\n", "b\n", "c\n"}

		diff, err := MakeDiff("src/f.cpp", original, reformatted)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"--- src/f.cpp\t(original)\n",
			"+++ src/f.cpp\t(reformatted)\n",
			"@@ -1,3 +1,3 @@\n",
			" a\n",
			"-b  \n",
			"+b\n",
			" c\n",
		}, diff)
	})

	t.Run("added final newline", func(t *testing.T) {
		t.Parallel()
		diff, err := MakeDiff("a.cpp", splitLines("int a;"), splitLines("int a;\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"--- a.cpp\t(original)\n",
			"+++ a.cpp\t(reformatted)\n",
			"@@ -1 +1 @@\n",
			"-int a;\n",
			"\\ No newline at end of file\n",
			"+int a;\n",
		}, diff)
	})

	t.Run("removed final newline", func(t *testing.T) {
		t.Parallel()
		diff, err := MakeDiff("a.cpp", splitLines("x\nint a;\n"), splitLines("x\nint a;"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"--- a.cpp\t(original)\n",
			"+++ a.cpp\t(reformatted)\n",
			"@@ -1,2 +1,2 @@\n",
			" x\n",
			"-int a;\n",
			"+int a;\n",
			"\\ No newline at end of file\n",
		}, diff)
	})

	t.Run("unterminated line unchanged in context", func(t *testing.T) {
		t.Parallel()
		diff, err := MakeDiff("a.cpp", splitLines("x \nint a;"), splitLines("x\nint a;"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"--- a.cpp\t(original)\n",
			"+++ a.cpp\t(reformatted)\n",
			"@@ -1,2 +1,2 @@\n",
			"-x \n",
			"+x\n",
			" int a;\n",
			"\\ No newline at end of file\n",
		}, diff)
	})

	t.Run("context is limited to three lines", func(t *testing.T) {
		t.Parallel()
		original := []string{"1\n", "2\n", "3\n", "4\n", "5\n", "x \n", "7\n", "8\n", "9\n", "10\n", "11\n"}
		reformatted := []string{"1\n", "2\n", "3\n", "4\n", "5\n", "x\n", "7\n", "8\n", "9\n", "10\n", "11\n"}

		diff, err := MakeDiff("f.c", original, reformatted)
		require.NoError(t, err)
		require.Len(t, diff, 2+1+3+2+3)
		assert.Equal(t, "@@ -3,7 +3,7 @@\n", diff[2])
		assert.Equal(t, " 3\n", diff[3])
		assert.Equal(t, " 9\n", diff[len(diff)-1])
	})
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single terminated line", "a\n", []string{"a\n"}},
		{"missing final newline kept", "a\nb", []string{"a\n", "b"}},
		{"single unterminated line", "a", []string{"a"}},
		{"blank lines kept", "a\n\nb\n", []string{"a\n", "\n", "b\n"}},
		{"crlf kept as content", "a\r\nb\r\n", []string{"a\r\n", "b\r\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitLines(tt.in))
		})
	}
}
