package domain

// TaskStatus is the lifecycle state of a task during a run.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not been reached yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task function is executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task function returned without error.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task function or an existence check failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusSkipped indicates the output already existed.
	TaskStatusSkipped TaskStatus = "skipped"
	// TaskStatusVerified indicates an external artifact was found.
	TaskStatusVerified TaskStatus = "verified"
)

// IsTerminal reports whether the status is final for the current run.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped, TaskStatusVerified:
		return true
	default:
		return false
	}
}

// StatusRow is one line of the status view.
type StatusRow struct {
	Name       string
	Parameters Kwargs
	// HasParameters is false for external tasks.
	HasParameters bool
	Output        Path
	Exists        bool
	// Checksum is the content checksum of an existing output, for display only.
	Checksum string
}

// ParametersText formats the parameters column. External tasks show "None".
func (r StatusRow) ParametersText() string {
	if !r.HasParameters {
		return "None"
	}
	return "{" + r.Parameters.String() + "}"
}
