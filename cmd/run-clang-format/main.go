package main

import (
	"context"
	"os"

	"github.com/andyballingall/run-clang-format/internal/app"
)

func main() {
	// SIGINT and SIGPIPE keep their default behaviour: the process exits and
	// running formatter children receive the same signal from the terminal.
	os.Exit(app.Run(context.Background(), os.Args, os.Stdout, os.Stderr, nil))
}
