//go:build mage

// Package main contains Mage build targets for freeresearch developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "freeresearch"
	cmdPkg     = "./cmd/freeresearch"
	versionPkg = "github.com/hyperifyio/freeresearch/internal/app"
)

// Default runs vet and the tests, then builds the binary.
var Default = All

// All vets, tests and builds.
func All() {
	mg.SerialDeps(Vet, Test, Build)
}

func ldflags() string {
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	version := os.Getenv("VERSION")
	flags := []string{
		"-X " + versionPkg + ".BuildCommit=" + commit,
		"-X " + versionPkg + ".BuildDate=" + time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		flags = append(flags, "-X "+versionPkg+".BuildVersion="+version)
	}
	return strings.Join(flags, " ")
}

// Build compiles the CLI binary into bin/ with version information.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Run builds the binary and starts the web interface.
func Run() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
