package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestTaskMarshalExposesUsernameNotID(t *testing.T) {
	task := Task{
		ID:         "t1",
		Title:      "Fix bug",
		Status:     "todo",
		AssignedTo: "9f7a2c1e-0000-0000-0000-000000000001",
		Assignee:   "alice",
		BoardID:    "board-1",
	}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}

	if !strings.Contains(string(payload), `"assigned_to":"alice"`) {
		t.Fatalf("expected assignee username on the wire, got %s", payload)
	}
	if strings.Contains(string(payload), task.AssignedTo) {
		t.Fatalf("raw assignee id must not be serialized, got %s", payload)
	}
	if strings.Contains(string(payload), "board-1") {
		t.Fatalf("board id must not be serialized, got %s", payload)
	}
}

func TestTaskMarshalIncludesEmptyDescription(t *testing.T) {
	payload, err := sonic.Marshal(Task{ID: "t1", Title: "Title"})
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	if !strings.Contains(string(payload), `"description":""`) {
		t.Fatalf("expected description field to be present, got %s", payload)
	}
}

func TestFieldErrorsError(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("title", "This field is required.")
	fe.Add("assigned_to", "User does not exist.")

	if got := fe.Error(); got != "invalid fields: assigned_to, title" {
		t.Fatalf("unexpected error string: %q", got)
	}
}
