package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	drawioexport "github.com/alnah/go-drawio-export"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process execution, and executable lookup.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Runner   drawioexport.CommandRunner          // Runs the renderer
	LookPath func(file string) (string, error) // Locates the renderer for doctor
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Runner:   &drawioexport.ExecRunner{},
		LookPath: exec.LookPath,
	}
}
