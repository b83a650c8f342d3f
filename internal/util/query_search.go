package util

import (
	"strings"

	"github.com/nakachan-ing/task-tracker/internal/model"
)

type TaskFilter struct {
	All       bool   // include soft-deleted tasks
	Completed *bool  // nil = both
	Query     string // matched against title and description
}

func FullTextSearch(tasks []model.Task, query string) []model.Task {
	if query == "" {
		return tasks
	}

	query = strings.ToLower(query)
	var filtered []model.Task

	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), query) ||
			strings.Contains(strings.ToLower(task.Description), query) {
			filtered = append(filtered, task)
		}
	}

	return filtered
}

// Visible drops soft-deleted tasks, keeping display order.
func Visible(tasks []model.Task) []model.Task {
	visible := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Show {
			visible = append(visible, task)
		}
	}
	return visible
}

func FilterTasks(tasks []model.Task, filter TaskFilter) []model.Task {
	if !filter.All {
		tasks = Visible(tasks)
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		filtered = append(filtered, task)
	}

	return FullTextSearch(filtered, filter.Query)
}
