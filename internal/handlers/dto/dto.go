package dto

import (
	"time"

	"github.com/s0-shady/Task-Manager-django/internal/models"
)

const dateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	PriorityID int64  `json:"priority_id"`
	DateAdded  string `json:"date_added,omitempty"`
}

type UpdateTaskRequest struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	PriorityID *int64  `json:"priority_id,omitempty"`
	DateAdded  *string `json:"date_added,omitempty"`
}

type PriorityRequest struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

type PriorityResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

type AttachmentResponse struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	File       string    `json:"file"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type TaskResponse struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	Content        string               `json:"content"`
	DateAdded      string               `json:"date_added"`
	CompletionDate *string              `json:"completion_date"`
	Priority       *PriorityResponse    `json:"priority"`
	Attachments    []AttachmentResponse `json:"attachments"`
	IsCompleted    bool                 `json:"is_completed"`
}

type TaskListResponse struct {
	UncompletedTasks []TaskResponse `json:"uncompleted_tasks"`
	CompletedTasks   []TaskResponse `json:"completed_tasks"`
}

type SortedTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	SortBy    string         `json:"sort_by"`
	SortOrder string         `json:"sort_order"`
}

type DeleteAttachmentResponse struct {
	TaskID int64 `json:"task_id"`
}

func FromPriority(p *models.Priority) *PriorityResponse {
	if p == nil {
		return nil
	}
	return &PriorityResponse{
		ID:     p.ID,
		Name:   p.Name,
		Weight: p.Weight,
	}
}

func FromPriorityList(priorities []*models.Priority) []PriorityResponse {
	result := make([]PriorityResponse, len(priorities))
	for i, p := range priorities {
		result[i] = *FromPriority(p)
	}
	return result
}

func FromAttachment(a *models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		Filename:   a.Filename,
		File:       a.File,
		UploadedAt: a.UploadedAt,
	}
}

func FromAttachmentList(attachments []models.Attachment) []AttachmentResponse {
	result := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		result[i] = FromAttachment(&attachments[i])
	}
	return result
}

func FromTask(t *models.Task) TaskResponse {
	var completionDate *string
	if t.CompletionDate != nil {
		formatted := t.CompletionDate.Format(dateLayout)
		completionDate = &formatted
	}

	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Content:        t.Content,
		DateAdded:      t.DateAdded.Format(dateLayout),
		CompletionDate: completionDate,
		Priority:       FromPriority(t.Priority),
		Attachments:    FromAttachmentList(t.Attachments),
		IsCompleted:    t.IsCompleted(),
	}
}

func FromTaskList(tasks []*models.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// ParseDate разбирает календарную дату формата ГГГГ-ММ-ДД
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
