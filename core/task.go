package core

import (
	"fmt"
	"strings"
)

// TaskKind classifies a planned task.
type TaskKind string

const (
	// TaskCode marks a task that changes source code.
	TaskCode TaskKind = "code"
	// TaskDoc marks a task that produces a document.
	TaskDoc TaskKind = "doc"
)

// Label returns the bracketed prefix used in planner output ("[Code]" / "[Doc]").
func (k TaskKind) Label() string {
	switch k {
	case TaskCode:
		return "[Code]"
	case TaskDoc:
		return "[Doc]"
	default:
		return "[" + string(k) + "]"
	}
}

// Task is an immutable (kind, description) pair produced by planning.
type Task struct {
	Kind        TaskKind `json:"kind"`
	Description string   `json:"description"`
}

// String renders the task in planner line format, e.g. "[Code] add endpoint".
func (t Task) String() string {
	return fmt.Sprintf("%s %s", t.Kind.Label(), t.Description)
}

// RenderTasks renders tasks one per line in planner output format.
func RenderTasks(tasks []Task) string {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}
