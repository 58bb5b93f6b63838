package domain

import (
	"fmt"
	"strings"
)

// ClashKind identifies the value two tasks collided on.
type ClashKind int

const (
	// ClashSignature means both tasks computed the same signature.
	ClashSignature ClashKind = iota
	// ClashOutput means both tasks produced a file at the same relative path.
	ClashOutput
)

// ClashError reports two distinct tasks colliding on a value that must be unique.
type ClashError struct {
	Kind  ClashKind
	Task1 string
	Task2 string
	// Value is the shared signature or the relative output path.
	Value string
}

// NewSignatureClash returns a ClashError for two tasks sharing a signature.
func NewSignatureClash(task1, task2, signature string) *ClashError {
	return &ClashError{Kind: ClashSignature, Task1: task1, Task2: task2, Value: signature}
}

// NewOutputClash returns a ClashError for two tasks producing the same file.
func NewOutputClash(task1, task2, path string) *ClashError {
	return &ClashError{Kind: ClashOutput, Task1: task1, Task2: task2, Value: path}
}

func (e *ClashError) Error() string {
	if e.Kind == ClashOutput {
		return fmt.Sprintf("Tasks '%s' and '%s' are clashing. They produced the same file '%s'.",
			e.Task1, e.Task2, e.Value)
	}
	return fmt.Sprintf("Tasks '%s' and '%s' are clashing. They have the same signature '%s'.",
		e.Task1, e.Task2, e.Value)
}

// Is matches ErrSignatureClash or ErrOutputClash depending on the kind.
func (e *ClashError) Is(target error) bool {
	switch e.Kind {
	case ClashSignature:
		return target == ErrSignatureClash
	case ClashOutput:
		return target == ErrOutputClash
	default:
		return false
	}
}

// DuplicateNameError reports two distinct tasks sharing a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("Detected multiple tasks with the name '%s'. Tasks must have unique names.", e.Name)
}

// Is matches ErrDuplicateTaskName.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateTaskName
}

// CycleError reports a dependency cycle. Path starts and ends with the same task name.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Detected a dependency cycle: '%s'.", strings.Join(e.Path, " depends on "))
}

// Is matches ErrCycleDetected.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
