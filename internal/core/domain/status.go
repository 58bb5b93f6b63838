package domain

// TaskStatus is the outcome of one task in a build, recorded on its span.
type TaskStatus string

const (
	// TaskStatusBuilt indicates the task executed and its output was promoted.
	TaskStatusBuilt TaskStatus = "built"
	// TaskStatusCached indicates a promoted output for the task's signature was reused.
	TaskStatusCached TaskStatus = "cached"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
)
