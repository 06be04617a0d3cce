// internal/preflight/preflight.go

// Package preflight checks everything the program needs before the UI takes
// over the terminal.
package preflight

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moby/term"
)

// Report lists the components that are missing. An empty report means ready.
type Report struct {
	Missing []string
}

func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

func (r *Report) add(format string, args ...any) {
	r.Missing = append(r.Missing, fmt.Sprintf(format, args...))
}

// Print writes the report the way the program shows it on stderr.
func (r *Report) Print(w io.Writer) {
	if r.OK() {
		fmt.Fprintln(w, "[OK] All required components are available.")
		return
	}
	fmt.Fprintln(w, "[ERROR] Required components are missing:")
	for _, m := range r.Missing {
		fmt.Fprintf(w, "  - %s\n", m)
	}
}

// Checker runs the start-up checks. Zero values use the process's stdio.
type Checker struct {
	Stdin   any
	Stdout  any
	LogPath string

	// ConfigErr is the result of loading the config file.
	ConfigErr error

	isTerminal func(any) bool
}

func fdIsTerminal(f any) bool {
	_, ok := term.GetFdInfo(f)
	return ok
}

// Run performs every check and returns the combined report.
func (c *Checker) Run() *Report {
	r := &Report{}
	isTerminal := c.isTerminal
	if isTerminal == nil {
		isTerminal = fdIsTerminal
	}

	stdin, stdout := c.Stdin, c.Stdout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if !isTerminal(stdin) {
		r.add("interactive terminal: standard input is not a terminal")
	}
	if !isTerminal(stdout) {
		r.add("interactive terminal: standard output is not a terminal")
	}

	if err := checkWritable(c.LogPath); err != nil {
		r.add("log file %s: %v", c.LogPath, err)
	}

	if c.ConfigErr != nil {
		r.add("configuration: %v", c.ConfigErr)
	}
	return r
}

// checkWritable opens the log file for append, creating its directory.
func checkWritable(path string) error {
	if path == "" {
		return fmt.Errorf("no path configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	return f.Close()
}
