package domain

// Command describes an external program run on behalf of a task.
type Command struct {
	// Label identifies the command in logs, usually the owning task's name.
	Label string
	// Args holds the program followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds KEY=VALUE overrides applied on top of the process environment.
	Env map[string]string
}
