package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	drawioexport "github.com/alnah/go-drawio-export"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake renderer and environment
// ---------------------------------------------------------------------------

// fakeRunner stands in for the drawio executable.
// failPage, when non-empty, is the 1-based page selector that exits 1.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	failPage string
	startErr error
	version  string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (drawioexport.RunOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, slices.Clone(args)...))
	if f.startErr != nil {
		return drawioexport.RunOutput{}, f.startErr
	}
	if len(args) > 0 && args[len(args)-1] == "--version" {
		return drawioexport.RunOutput{Stdout: f.version + "\n"}, nil
	}
	for i, a := range args {
		if a == "-p" && i+1 < len(args) && args[i+1] == f.failPage {
			return drawioexport.RunOutput{Stderr: "Error: export failed\n", ExitCode: 1}, nil
		}
	}
	return drawioexport.RunOutput{}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

// testEnv returns an Environment writing into buffers.
func testEnv(runner drawioexport.CommandRunner) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Runner: runner,
		LookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
	}
	return env, &stdout, &stderr
}

const threePages = `<mxfile host="drawio">
  <diagram id="a" name="Overview"/>
  <diagram id="b" name="Detail"/>
  <diagram id="c" name="Legend"/>
</mxfile>`

// writeDiagram writes content as Diagrams.drawio in a fresh dir.
func writeDiagram(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Diagrams.drawio")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// argAfter returns the token after flag in args.
func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
