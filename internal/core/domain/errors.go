package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingOutput is returned when a task is constructed without an "output" argument.
	ErrMissingOutput = zerr.New("missing output argument")

	// ErrMissingFunc is returned when a task is constructed without a function.
	ErrMissingFunc = zerr.New("missing task function")

	// ErrInvalidOutput is returned when the "output" argument is neither a string nor a Path.
	ErrInvalidOutput = zerr.New("invalid output argument")

	// ErrMissingExternal is returned when an external task's artifact does not exist at run time.
	ErrMissingExternal = zerr.New("external artifact does not exist")

	// ErrDuplicateOutput is returned when two different task definitions write the same output
	// and the pipeline rejects duplicates.
	ErrDuplicateOutput = zerr.New("duplicate output")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrMissingArgument is returned when a task function is called without an argument it needs.
	ErrMissingArgument = zerr.New("missing task argument")

	// ErrUnknownFunc is returned when a pipeline definition names a function that is not registered.
	ErrUnknownFunc = zerr.New("unknown task function")

	// ErrInvalidReference is returned when a pipeline definition references an undeclared output.
	ErrInvalidReference = zerr.New("invalid task reference")

	// ErrInvalidArray is returned when an array's shape does not match its data.
	ErrInvalidArray = zerr.New("invalid array")

	// ErrBuildExecutionFailed marks a failed pipeline run whose cause has already been reported.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
