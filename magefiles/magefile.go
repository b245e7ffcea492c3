//go:build mage

// Package main contains Mage build targets for autosurvey developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"corpus/sources",
	"corpus/index",
	"output",
}

// buildTags enables the FTS5 module of go-sqlite3.
const buildTags = "sqlite_fts5"

const (
	binDir  = "bin"
	binName = "autosurvey"
	cmdPkg  = "./cmd/autosurvey"
)

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", buildTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-tags", buildTags, "-race", "./...")
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports directories that hold no project sources.
func skipDir(path string, d fs.DirEntry) bool {
	name := d.Name()
	return path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "bin" || name == "output" || name == "corpus")
}

// countGoLines counts non-blank lines in production and test Go files.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countDocWords counts words in the project's Markdown files.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(bytes.Fields(data))
		return nil
	})
	return total, err
}

// binary returns the path of the built CLI.
func binary() string {
	return filepath.Join(binDir, binName)
}

// Ingest indexes corpus/sources into the corpus database.
func Ingest() error {
	mg.Deps(Build)
	return sh.RunV(binary(), "corpus", "ingest")
}

// Outline drafts an outline for $TOPIC into output/outline.md.
func Outline() error {
	mg.Deps(Build)
	topic, err := topicFromEnv()
	if err != nil {
		return err
	}
	return sh.RunV(binary(), "outline", topic)
}

// Survey runs the full pipeline for $TOPIC with refinement.
func Survey() error {
	mg.Deps(Build)
	topic, err := topicFromEnv()
	if err != nil {
		return err
	}
	return sh.RunV(binary(), "run", "--refine", topic)
}

func topicFromEnv() (string, error) {
	topic := strings.TrimSpace(os.Getenv("TOPIC"))
	if topic == "" {
		return "", fmt.Errorf("set TOPIC, e.g. TOPIC=\"graph neural networks\" mage survey")
	}
	return topic, nil
}
