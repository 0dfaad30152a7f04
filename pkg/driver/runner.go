// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Runner handles external process execution for the driver.
//
// All exec.Command calls in the build/run path go through this interface so
// driver logic can be tested without real cmake/make invocations. Every
// method takes an explicit working directory; the driver never changes the
// process-wide working directory, which keeps concurrent builds safe.
//
// Implementations must be safe for concurrent use from multiple goroutines.
type Runner interface {
	// Run executes a command synchronously in dir and returns its stdout.
	// A non-zero exit is returned as a *CommandError carrying stderr.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// RunToFile executes a command synchronously in dir with combined
	// stdout and stderr streamed verbatim to outPath. The file is created
	// (or truncated) even when the command fails, matching what a shell
	// redirection would leave behind.
	RunToFile(ctx context.Context, dir, outPath, name string, args ...string) error
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command synchronously and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewCommandError(commandLine(name, args), exitCode(err), stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// RunToFile executes a command with combined output redirected to a file.
func (r *ExecRunner) RunToFile(ctx context.Context, dir, outPath, name string, args ...string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = f
	cmd.Stderr = f

	if err := cmd.Run(); err != nil {
		return NewCommandError(commandLine(name, args), exitCode(err), "", err)
	}
	return nil
}

// commandLine formats a command for error messages.
func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// exitCode extracts the process exit code from a cmd.Run error, -1 if the
// process never ran or was killed.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// RunnerCall records one Runner invocation for test verification.
type RunnerCall struct {
	Method  string
	Dir     string
	Name    string
	Args    []string
	OutPath string
}

// MockRunner implements Runner for tests.
//
// Each method delegates to the corresponding *Func field when set and
// records the call. With no function set, Run returns empty output and
// RunToFile writes FileOutput to the requested path, both succeeding.
type MockRunner struct {
	// RunFunc is called when Run is invoked.
	RunFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// RunToFileFunc is called when RunToFile is invoked.
	RunToFileFunc func(ctx context.Context, dir, outPath, name string, args ...string) error

	// FileOutput is written by the default RunToFile behavior.
	FileOutput []byte

	// Calls records all method invocations for verification.
	Calls []RunnerCall

	mu sync.Mutex
}

// Run records the call and delegates to RunFunc.
func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	m.record(RunnerCall{Method: "Run", Dir: dir, Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, name, args...)
	}
	return nil, nil
}

// RunToFile records the call and delegates to RunToFileFunc.
func (m *MockRunner) RunToFile(ctx context.Context, dir, outPath, name string, args ...string) error {
	m.record(RunnerCall{Method: "RunToFile", Dir: dir, Name: name, Args: args, OutPath: outPath})
	if m.RunToFileFunc != nil {
		return m.RunToFileFunc(ctx, dir, outPath, name, args...)
	}
	return os.WriteFile(outPath, m.FileOutput, 0644)
}

// CallsSnapshot returns a copy of the recorded calls.
func (m *MockRunner) CallsSnapshot() []RunnerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunnerCall, len(m.Calls))
	copy(out, m.Calls)
	return out
}

func (m *MockRunner) record(call RunnerCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// Ensure both implementations satisfy the interface.
var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*MockRunner)(nil)
)
