// Package main provides integration tests for the run-clang-format CLI.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/andyballingall/run-clang-format/internal/app"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"run-clang-format": func() {
			os.Exit(app.Run(context.Background(), os.Args, os.Stdout, os.Stderr, nil))
		},
		"fake-format": func() {
			os.Exit(fakeFormat(os.Args[1:]))
		},
	})
}

func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

// fakeFormat stands in for clang-format. It accepts the same arguments,
// trims trailing whitespace and collapses runs of spaces after the
// indentation. Files containing BROKEN make it fail with status 3.
func fakeFormat(args []string) int {
	if len(args) == 1 && args[0] == "--version" {
		fmt.Println("fake-format version 1.0")
		return 0
	}

	var file string
	inPlace := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-i":
			inPlace = true
		case "--style":
			i++
		default:
			file = args[i]
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fake-format: %v\n", err)
		return 1
	}
	if bytes.Contains(data, []byte("BROKEN")) {
		fmt.Fprintf(os.Stderr, "fake-format: cannot format %s\n", file)
		return 3
	}

	lines := strings.SplitAfter(string(data), "\n")
	var out strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		body := strings.TrimRight(l, " \t\n")
		indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
		out.WriteString(indent + strings.Join(strings.Fields(body), " "))
		if strings.HasSuffix(l, "\n") {
			out.WriteByte('\n')
		}
	}

	if inPlace {
		//nolint:gosec // test files are world readable
		if err = os.WriteFile(file, []byte(out.String()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "fake-format: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(out.String())
	return 0
}
