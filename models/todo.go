package models

import (
	"strings"
	"time"
)

// TodoItem is a todo owned by a single user.
type TodoItem struct {
	UserID        string    `json:"userId" db:"user_id" dynamodbav:"userId"`
	TodoID        string    `json:"todoId" db:"todo_id" dynamodbav:"todoId"`
	Name          string    `json:"name" db:"name" dynamodbav:"name"`
	DueDate       string    `json:"dueDate" db:"due_date" dynamodbav:"dueDate"`
	Done          bool      `json:"done" db:"done" dynamodbav:"done"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at" dynamodbav:"createdAt"`
	AttachmentURL *string   `json:"attachmentUrl" db:"attachment_url" dynamodbav:"attachmentUrl"`
}

// CreateTodoRequest is the body accepted by POST /todos.
type CreateTodoRequest struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
}

// UpdateTodoRequest is the body accepted by PATCH /todos/{todoId}.
type UpdateTodoRequest struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}

// TodoUpdate holds the fields an owner may replace in place.
type TodoUpdate struct {
	Name    string
	DueDate string
	Done    bool
}

// NewTodoItem builds a fresh item. Only name and dueDate come from the
// caller; everything else is set here.
func NewTodoItem(userID, todoID string, req CreateTodoRequest, now time.Time) TodoItem {
	return TodoItem{
		UserID:        userID,
		TodoID:        todoID,
		Name:          strings.TrimSpace(req.Name),
		DueDate:       req.DueDate,
		Done:          false,
		CreatedAt:     now.UTC(),
		AttachmentURL: nil,
	}
}

// ToUpdate converts a validated request into the mutable field set.
func (r UpdateTodoRequest) ToUpdate() TodoUpdate {
	return TodoUpdate{
		Name:    strings.TrimSpace(r.Name),
		DueDate: r.DueDate,
		Done:    r.Done,
	}
}
