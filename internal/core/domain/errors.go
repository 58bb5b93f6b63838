package domain

import "go.trai.ch/zerr"

var (
	// ErrNilTask is returned when a nil task is passed to the engine or listed as a dependency.
	ErrNilTask = zerr.New("build task is nil")

	// ErrTaskNotComparable is returned when a task's dynamic type cannot be used as a map key.
	ErrTaskNotComparable = zerr.New("build task is not comparable")

	// ErrDuplicateTaskName is returned when two distinct tasks reachable from the same roots share a name.
	ErrDuplicateTaskName = zerr.New("duplicate task name")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrSignatureClash is returned when two distinct tasks compute the same signature.
	ErrSignatureClash = zerr.New("signature clash")

	// ErrOutputClash is returned when two distinct tasks produce a file at the same relative path.
	ErrOutputClash = zerr.New("output clash")

	// ErrTaskSignatureFailed is returned when a task fails to compute its signature.
	ErrTaskSignatureFailed = zerr.New("task signature failed")

	// ErrTaskExecutionFailed is returned when a task's Execute returns an error.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrBuildExecutionFailed is returned when a build invocation did not complete.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInvalidSignature is returned when a signature cannot be used as a directory name.
	ErrInvalidSignature = zerr.New("invalid signature")

	// ErrStoreResetFailed is returned when the meta directory could not be prepared.
	ErrStoreResetFailed = zerr.New("failed to prepare meta directory")

	// ErrStoreLookupFailed is returned when the done directory of a signature could not be inspected.
	ErrStoreLookupFailed = zerr.New("failed to look up cached output")

	// ErrStoreStageFailed is returned when a partial directory could not be created.
	ErrStoreStageFailed = zerr.New("failed to create partial output directory")

	// ErrStorePromoteFailed is returned when a partial directory could not be promoted.
	ErrStorePromoteFailed = zerr.New("failed to promote partial output directory")

	// ErrOutputAggregationFailed is returned when task outputs could not be merged into the output directory.
	ErrOutputAggregationFailed = zerr.New("failed to aggregate task outputs")

	// ErrConfigLoadFailed is returned when the configuration file cannot be read or parsed.
	ErrConfigLoadFailed = zerr.New("failed to load configuration")

	// ErrUnknownTelemetry is returned when the configuration names an unsupported telemetry backend.
	ErrUnknownTelemetry = zerr.New("unknown telemetry backend")

	// ErrNoCommandSpecified is returned when a command-backed task has no command.
	ErrNoCommandSpecified = zerr.New("no command specified")
)
