package domain

// Task represents a single board item. AssignedTo holds the assignee's user
// id; the wire format exposes the assignee's username instead, so the raw id
// stays out of JSON. Status is an opaque label chosen by the client.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssignedTo  string `json:"-"`
	Assignee    string `json:"assigned_to"`
	BoardID     string `json:"-"`
}

// TaskFields carries the writable fields for task creation.
type TaskFields struct {
	Title       string
	Description string
	Status      string
	AssignedTo  string
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  *string
}

// DefaultTaskStatus is applied when a task is created without a status.
const DefaultTaskStatus = "todo"
