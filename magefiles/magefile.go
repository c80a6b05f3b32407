//go:build mage

// Package main contains Mage build targets for meshwatch developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "meshwatch"
	cmdPkg  = "./cmd/meshwatch"
)

// Default target when mage is run without arguments.
var Default = Build

// sampleDirs lists the directories used by the sample config written by Init.
var sampleDirs = []string{
	"work/c4d",
	"work/gfx",
}

// Init creates sample input/output directories and a meshwatch.yaml that
// points a "Linux" platform entry at them.
func Init() error {
	for _, dir := range sampleDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	const cfgPath = "meshwatch.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("%s already exists, leaving it alone.\n", cfgPath)
		return nil
	}

	cfg := `# meshwatch sample configuration
interval: 1s
source-ext: .c4d
output-ext: .boba
platforms:
  Linux:
    input-dir: work/c4d
    output-dir: work/gfx
    converter: exporter
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfgPath, err)
	}
	fmt.Printf("Wrote %s.\n", cfgPath)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Once builds the binary and runs a single reconciliation pass.
func Once() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "once")
}

// Watch builds the binary and starts the watch loop.
func Watch() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName))
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
