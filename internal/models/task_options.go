package models

import (
	"time"
)

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithContent(content string) TaskOption {
	return func(task *Task) {
		task.Content = content
	}
}

func WithPriority(priorityID int64) TaskOption {
	if priorityID == 0 {
		return nil
	}
	return func(task *Task) {
		task.PriorityID = priorityID
		task.Priority = nil
	}
}

func WithDateAdded(dateAdded time.Time) TaskOption {
	if dateAdded.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.DateAdded = DateOf(dateAdded)
	}
}
