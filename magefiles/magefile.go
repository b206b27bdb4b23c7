//go:build mage

// Package main provides build targets for agrorganica using Mage.
//
// Usage:
//
//	mage build       Compile the agrorganica binary to bin/
//	mage test:all    Run all tests
//	mage test:unit   Run tests in short mode
//	mage test:cover  Run all tests and write coverage.out
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install agrorganica to GOPATH/bin
//	mage stats       Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binGit     = "git"
	binaryName = "agrorganica"
	binaryDir  = "bin"
	cmdDir     = "./cmd/agrorganica"
	modulePath = "github.com/mesh-intelligence/agrorganica"
)

// Build compiles the agrorganica binary to bin/, stamping the version
// from the nearest git tag when one exists.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := version(); v != "" {
		args = append(args, "-ldflags", "-X "+modulePath+"/internal/cli.Version="+v)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// version returns the git tag without its leading "v", or "" outside a
// tagged checkout.
func version() string {
	out, err := sh.Output(binGit, "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "v")
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
