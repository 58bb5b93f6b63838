package domain

import "unique"

// TaskName is an interned task name. Comparing two TaskNames is a pointer comparison,
// which keeps duplicate-name detection cheap on large graphs.
type TaskName struct {
	h unique.Handle[string]
}

// NewTaskName interns s.
func NewTaskName(s string) TaskName {
	return TaskName{h: unique.Make(s)}
}

// NameOf returns the interned name of t.
func NameOf(t BuildTask) TaskName {
	return NewTaskName(t.Name())
}

// String returns the underlying name. The zero TaskName yields "".
func (n TaskName) String() string {
	var zero unique.Handle[string]
	if n.h == zero {
		return ""
	}
	return n.h.Value()
}
