package models

import (
	"time"
)

type Priority struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Weight  int    `json:"weight" db:"weight"`
	Deleted bool   `json:"-" db:"deleted"`
}

type Task struct {
	ID             int64      `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Content        string     `json:"content" db:"content"`
	DateAdded      time.Time  `json:"date_added" db:"date_added"`
	CompletionDate *time.Time `json:"completion_date,omitempty" db:"completion_date"`
	Deleted        bool       `json:"-" db:"deleted"`
	PriorityID     int64      `json:"priority_id" db:"priority_id"`

	Priority    *Priority    `json:"priority,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// задача считается завершённой, если проставлена дата завершения
func (t *Task) IsCompleted() bool {
	return t.CompletionDate != nil
}

type Attachment struct {
	ID         int64     `json:"id" db:"id"`
	TaskID     int64     `json:"task_id" db:"task_id"`
	File       string    `json:"file" db:"file"`
	Filename   string    `json:"filename" db:"filename"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Today возвращает текущую календарную дату (гранулярность - день, UTC)
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf отбрасывает время, оставляя календарную дату
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
