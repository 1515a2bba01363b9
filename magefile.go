//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "vocabdeck"

// Default target to run when none is specified
var Default = Build

// Build compiles the vocabdeck binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/vocabdeck")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Run builds and starts the web UI
func Run() error {
	mg.Deps(Build)
	return sh.RunV("./" + binary)
}

// Install installs vocabdeck into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/vocabdeck")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
