// Package conformance discovers golden Lox scripts under testdata/scripts
// and runs each in-process against internal/lox, diffing captured output
// against the sibling golden file. It adapts the teacher's root-level
// TestFramework/TestSuite/TestCase shape (originally built around
// shelling out to a reference clox binary) to run entirely in-process.
package conformance

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Case is one script under a suite directory: the .lox source, the
// expected stdout from the sibling .out file, and the expected exit
// code from an optional sibling .exit file (0 when absent).
type Case struct {
	Suite        string
	Name         string
	ScriptPath   string
	ExpectStdout string
	ExpectExit   int
}

// Suite groups every case found directly under one testdata/scripts
// subdirectory.
type Suite struct {
	Name  string
	Cases []Case
}

// Discover walks root (typically "../../testdata/scripts") and returns
// one Suite per immediate subdirectory, each populated with every
// *.lox/*.out pair found inside it.
func Discover(root string) ([]Suite, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var suites []Suite
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		suite, err := discoverSuite(root, entry.Name())
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}

	sort.Slice(suites, func(i, j int) bool { return suites[i].Name < suites[j].Name })
	return suites, nil
}

func discoverSuite(root, name string) (Suite, error) {
	dir := path.Join(root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Suite{}, err
	}

	suite := Suite{Name: name}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lox") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".lox")
		scriptPath := filepath.Join(dir, entry.Name())

		expectedOut, err := os.ReadFile(filepath.Join(dir, base+".out"))
		if err != nil {
			return Suite{}, err
		}

		exit := 0
		if b, err := os.ReadFile(filepath.Join(dir, base+".exit")); err == nil {
			exit, err = strconv.Atoi(strings.TrimSpace(string(b)))
			if err != nil {
				return Suite{}, err
			}
		}

		suite.Cases = append(suite.Cases, Case{
			Suite:        name,
			Name:         base,
			ScriptPath:   scriptPath,
			ExpectStdout: string(expectedOut),
			ExpectExit:   exit,
		})
	}

	sort.Slice(suite.Cases, func(i, j int) bool { return suite.Cases[i].Name < suite.Cases[j].Name })
	return suite, nil
}
