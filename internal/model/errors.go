package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSpawnFailure means an executable is missing or could not be launched
	ErrSpawnFailure = errors.New("failed to start process")

	// ErrExecutionFailure means a process exited non-zero
	ErrExecutionFailure = errors.New("process failed")

	// ErrStateConflict means a job was submitted while another one is active
	ErrStateConflict = errors.New("another clip job is already active")

	// ErrCancelled means the job was cancelled by the user
	ErrCancelled = errors.New("clip job cancelled")

	// ErrInvalidRequest means the clip request failed validation
	ErrInvalidRequest = errors.New("invalid clip request")
)

// Phase tags which subprocess of a job failed
type Phase string

const (
	PhaseFetch  Phase = "fetch"
	PhaseEncode Phase = "encode"
	PhaseProbe  Phase = "probe"
)

// SpawnError wraps a failure to start an executable
type SpawnError struct {
	Phase Phase
	Path  string
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", e.Phase, ErrSpawnFailure, e.Path, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawnFailure, e.Err}
}

// ExecutionError is returned when a process exits non-zero
type ExecutionError struct {
	Phase    Phase
	ExitCode int
	Stderr   string // trailing diagnostic output, may be empty
	Err      error
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Phase, ErrExecutionFailure)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExecutionFailure}
	}
	return []error{ErrExecutionFailure, e.Err}
}
