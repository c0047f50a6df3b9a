//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Writes the sample design to designs/sample.json and prints its tree.
func (Run) Sample() error {
	mg.Deps(Build.Editor)
	out := filepath.Join("designs", "sample.json")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	fmt.Println("Run sample...")
	if _, err := executeCmd("bin/gamebase", withArgs("sample", "-out", out), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("bin/gamebase", withArgs("tree", out), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches designs/sample.json until interrupted.
func (Run) Watch() error {
	mg.Deps(Run.Sample)
	_, err := executeCmd("bin/gamebase", withArgs("watch", filepath.Join("designs", "sample.json")), withStream())
	return err
}
