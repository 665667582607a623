package model

// PipelineState represents the state of the clip pipeline
type PipelineState string

const (
	// StateIdle means no job occupies the pipeline
	StateIdle PipelineState = "Idle"

	// StatePhase1Running means the first subprocess (fetch or local encode) is running
	StatePhase1Running PipelineState = "Phase1Running"

	// StatePhase1Done means the fetch finished and the transcode has not started yet
	StatePhase1Done PipelineState = "Phase1Done"

	// StatePhase2Running means the transcode subprocess is running
	StatePhase2Running PipelineState = "Phase2Running"

	// StateSucceeded means the job produced its final output
	StateSucceeded PipelineState = "Succeeded"

	// StateFailed means a phase failed to spawn or exited non-zero
	StateFailed PipelineState = "Failed"

	// StateCancelled means the job was cancelled by the user
	StateCancelled PipelineState = "Cancelled"
)

// String returns the string representation of PipelineState
func (ps PipelineState) String() string {
	return string(ps)
}

// IsActive returns true if a job currently occupies the pipeline
func (ps PipelineState) IsActive() bool {
	return ps == StatePhase1Running || ps == StatePhase1Done || ps == StatePhase2Running
}

// IsFinished returns true if the state is terminal (succeeded, failed or cancelled)
func (ps PipelineState) IsFinished() bool {
	return ps == StateSucceeded || ps == StateFailed || ps == StateCancelled
}
