// Package main builds bin/run-clang-format with the version taken from git.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/run-clang-format/internal/app.Version"

func main() {
	binaryName := "run-clang-format"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := describe()
	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s %s...\n", binaryName, version)

	cmd := exec.Command("go", "build",
		"-ldflags", fmt.Sprintf("-X %s=%s", versionVar, version),
		"-o", outputPath, "./cmd/run-clang-format")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Built %s\n", outputPath)
}

// describe returns the git description of HEAD, or "dev" outside a checkout.
func describe() string {
	var out bytes.Buffer
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
