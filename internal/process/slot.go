package process

import (
	"fmt"
	"os"
	"sync"

	"github.com/ytget/yt-clipper/internal/model"
)

// Slot is the single-job shared state: the active process, the current
// job's artifacts and the configured output directory. One job may occupy
// the slot at a time.
type Slot struct {
	mu        sync.Mutex
	jobID     string
	state     model.PipelineState
	proc      *os.Process
	artifacts model.JobArtifacts
	outputDir string
	cancelled bool
}

// NewSlot creates an idle slot
func NewSlot() *Slot {
	return &Slot{state: model.StateIdle}
}

// Begin claims the slot for jobID. It fails with model.ErrStateConflict
// while another job is active.
func (s *Slot) Begin(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsActive() {
		return fmt.Errorf("%w: %s", model.ErrStateConflict, s.jobID)
	}

	s.jobID = jobID
	s.state = model.StatePhase1Running
	s.proc = nil
	s.cancelled = false
	return nil
}

// Transition moves an active job to another non-terminal state. It returns
// false when the job was cancelled in the meantime.
func (s *Slot) Transition(state model.PipelineState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return false
	}
	s.state = state
	return true
}

// Finish records the terminal state of the job and clears the active process.
// Artifacts are forgotten on success and cancellation; a failed job keeps
// them recorded so an explicit cancel can still remove them.
func (s *Slot) Finish(state model.PipelineState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	s.proc = nil
	if state != model.StateFailed {
		s.artifacts = model.JobArtifacts{}
	}
}

// State returns the current pipeline state
func (s *Slot) State() model.PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// JobID returns the id of the job that last claimed the slot
func (s *Slot) JobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobID
}

// SetProcess records the active process, replacing any previous one
func (s *Slot) SetProcess(proc *os.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proc = proc
}

// ClearProcess clears the active process if it is still proc
func (s *Slot) ClearProcess(proc *os.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == proc {
		s.proc = nil
	}
}

// PID returns the active process id, 0 if none
func (s *Slot) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return 0
	}
	return s.proc.Pid
}

// SetArtifacts records the files the current job may create
func (s *Slot) SetArtifacts(artifacts model.JobArtifacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = artifacts
}

// Artifacts returns the recorded job artifacts
func (s *Slot) Artifacts() model.JobArtifacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifacts
}

// Cancelled reports whether the current job was cancelled
func (s *Slot) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Cancel marks an active job as cancelled and takes the active process and
// the recorded artifacts out of the slot, leaving both empty.
func (s *Slot) Cancel() (proc *os.Process, artifacts model.JobArtifacts) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsActive() {
		s.cancelled = true
	}
	proc, artifacts = s.proc, s.artifacts
	s.proc = nil
	s.artifacts = model.JobArtifacts{}
	return proc, artifacts
}

// SetOutputDir overrides the output directory for subsequent jobs
func (s *Slot) SetOutputDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputDir = dir
}

// OutputDir returns the output directory override, empty if unset
func (s *Slot) OutputDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputDir
}
