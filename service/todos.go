// Package service holds the todo business rules: record construction,
// input validation and the ownership check that gates every mutation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-api/logging"
	"todo-api/models"
)

// TodoStore is the table behind the service.
type TodoStore interface {
	Create(ctx context.Context, item models.TodoItem) error
	GetByID(ctx context.Context, todoID string) (models.TodoItem, bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error)
	Update(ctx context.Context, todoID string, update models.TodoUpdate) error
	UpdateAttachmentURL(ctx context.Context, todoID, url string) error
	Delete(ctx context.Context, todoID string) error
}

// AttachmentStore is the object store behind the service.
type AttachmentStore interface {
	PublicURL(attachmentID string) string
	UploadURL(ctx context.Context, attachmentID string) (string, error)
}

type TodoService struct {
	store       TodoStore
	attachments AttachmentStore
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

func NewTodoService(store TodoStore, attachments AttachmentStore, logger *slog.Logger) *TodoService {
	return &TodoService{
		store:       store,
		attachments: attachments,
		logger:      logging.Component(logger, "todos"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *TodoService) CreateTodo(ctx context.Context, userID string, req models.CreateTodoRequest) (models.TodoItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.TodoItem{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}

	item := models.NewTodoItem(userID, s.newID(), req, s.now())
	if err := s.store.Create(ctx, item); err != nil {
		s.logger.Error("could not create todo item", "userId", userID, "error", err)
		return models.TodoItem{}, fmt.Errorf("create todo: %w", err)
	}

	s.logger.Info("todo item created", "userId", userID, "todoId", item.TodoID)
	return item, nil
}

func (s *TodoService) ListTodos(ctx context.Context, userID string) ([]models.TodoItem, error) {
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("could not fetch todo items", "userId", userID, "error", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}

	s.logger.Debug("fetched todo items", "userId", userID, "count", len(items))
	return items, nil
}

func (s *TodoService) UpdateTodo(ctx context.Context, userID, todoID string, req models.UpdateTodoRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if _, err := s.authorize(ctx, userID, todoID, "update"); err != nil {
		return err
	}

	if err := s.store.Update(ctx, todoID, req.ToUpdate()); err != nil {
		s.logger.Error("could not update todo item", "todoId", todoID, "error", err)
		return fmt.Errorf("update todo %s: %w", todoID, err)
	}

	s.logger.Info("todo item updated", "userId", userID, "todoId", todoID)
	return nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if _, err := s.authorize(ctx, userID, todoID, "delete"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, todoID); err != nil {
		s.logger.Error("could not delete todo item", "todoId", todoID, "error", err)
		return fmt.Errorf("delete todo %s: %w", todoID, err)
	}

	s.logger.Info("todo item deleted", "userId", userID, "todoId", todoID)
	return nil
}

// AssociateAttachment points the todo at attachmentID's public URL and
// returns that URL.
func (s *TodoService) AssociateAttachment(ctx context.Context, userID, todoID, attachmentID string) (string, error) {
	attachmentURL := s.attachments.PublicURL(attachmentID)

	if _, err := s.authorize(ctx, userID, todoID, "attach"); err != nil {
		return "", err
	}

	if err := s.store.UpdateAttachmentURL(ctx, todoID, attachmentURL); err != nil {
		s.logger.Error("could not update attachment url", "todoId", todoID, "error", err)
		return "", fmt.Errorf("update attachment url %s: %w", todoID, err)
	}

	s.logger.Info("todo item attachment url updated", "todoId", todoID, "attachmentUrl", attachmentURL)
	return attachmentURL, nil
}

// IssueUploadURL does not check ownership; the URL only permits writing a
// new object and is useless until associated with a todo.
func (s *TodoService) IssueUploadURL(ctx context.Context, attachmentID string) (string, error) {
	url, err := s.attachments.UploadURL(ctx, attachmentID)
	if err != nil {
		s.logger.Error("could not get upload url", "attachmentId", attachmentID, "error", err)
		return "", fmt.Errorf("issue upload url: %w", err)
	}

	s.logger.Debug("signed upload url created", "attachmentId", attachmentID)
	return url, nil
}

// authorize loads todoID and checks that userID owns it.
func (s *TodoService) authorize(ctx context.Context, userID, todoID, action string) (models.TodoItem, error) {
	item, found, err := s.store.GetByID(ctx, todoID)
	if err != nil {
		s.logger.Error("could not load todo item", "todoId", todoID, "action", action, "error", err)
		return models.TodoItem{}, fmt.Errorf("load todo %s: %w", todoID, err)
	}
	if !found {
		s.logger.Warn("todo item not found", "todoId", todoID, "action", action)
		return models.TodoItem{}, fmt.Errorf("%s todo %s: %w", action, todoID, models.ErrNotFound)
	}
	if item.UserID != userID {
		s.logger.Warn("action on todo item unauthorized", "todoId", todoID, "userId", userID, "action", action)
		return models.TodoItem{}, fmt.Errorf("%s todo %s: %w", action, todoID, models.ErrUnauthorized)
	}
	return item, nil
}
