package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

const ZeroTime = "00:00:00"

type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskID      int    `json:"taskID"`
	Timer       string `json:"timer"`     // HH:MM:SS elapsed
	TimeGoal    string `json:"time_goal"` // HH:MM:SS target
	Completed   bool   `json:"completed"`
	Show        bool   `json:"show"` // false = soft deleted
}

// TaskFile is the whole document stored on disk.
type TaskFile struct {
	Tasks []Task `json:"tasks"`
}

func (t *Task) SetDeleted() {
	t.Show = false
}

func (t *Task) ResetDeleted() {
	t.Show = true
}

// UnmarshalJSON accepts records written by older versions of the tracker,
// where "show" was stored as the string "True" and could be missing entirely.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		Show     json.RawMessage `json:"show"`
		TimeGoal *string         `json:"time_goal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task(raw.plain)

	t.TimeGoal = ZeroTime
	if raw.TimeGoal != nil && *raw.TimeGoal != "" {
		t.TimeGoal = *raw.TimeGoal
	}
	if t.Timer == "" {
		t.Timer = ZeroTime
	}

	show, err := parseFlag(raw.Show)
	if err != nil {
		return fmt.Errorf("task %d: %w", t.TaskID, err)
	}
	t.Show = show
	return nil
}

func parseFlag(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return true, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, fmt.Errorf("invalid show flag %s", string(raw))
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid show flag %q", s)
}
