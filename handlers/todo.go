package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"todo-api/logging"
	"todo-api/middlewares"
	"todo-api/models"
	"todo-api/utils"
)

// TodoService is the business layer the handlers call into.
type TodoService interface {
	CreateTodo(ctx context.Context, userID string, req models.CreateTodoRequest) (models.TodoItem, error)
	ListTodos(ctx context.Context, userID string) ([]models.TodoItem, error)
	UpdateTodo(ctx context.Context, userID, todoID string, req models.UpdateTodoRequest) error
	DeleteTodo(ctx context.Context, userID, todoID string) error
	AssociateAttachment(ctx context.Context, userID, todoID, attachmentID string) (string, error)
	IssueUploadURL(ctx context.Context, attachmentID string) (string, error)
}

type TodoHandler struct {
	todos  TodoService
	logger *slog.Logger
	newID  func() string
}

func NewTodoHandler(todos TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		todos:  todos,
		logger: logging.Component(logger, "http"),
		newID:  uuid.NewString,
	}
}

type todoListResponse struct {
	Items []models.TodoItem `json:"items"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// GetTodos godoc
// @Summary      List the caller's todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  todoListResponse
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      502  {string}  string  "Storage unavailable"
// @Router       /todos [get]
func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	items, err := h.todos.ListTodos(r.Context(), middlewares.GetUserID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, todoListResponse{Items: items})
}

// CreateTodo godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        todo  body      models.CreateTodoRequest  true  "Todo to create"
// @Success      201   {object}  models.TodoItem
// @Failure      400   {string}  string  "Bad request"
// @Failure      502   {string}  string  "Storage unavailable"
// @Router       /todos [post]
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTodoRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	item, err := h.todos.CreateTodo(r.Context(), middlewares.GetUserID(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

// UpdateTodo godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Security     BearerAuth
// @Param        todoId  path  string                    true  "Todo ID"
// @Param        todo    body  models.UpdateTodoRequest  true  "New values"
// @Success      200
// @Failure      400  {string}  string  "Bad request"
// @Failure      403  {string}  string  "Not the owner"
// @Failure      404  {string}  string  "Todo not found"
// @Router       /todos/{todoId} [patch]
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	todoID := mux.Vars(r)["todoId"]

	var req models.UpdateTodoRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.todos.UpdateTodo(r.Context(), middlewares.GetUserID(r), todoID, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteTodo godoc
// @Summary      Delete a todo
// @Tags         todos
// @Security     BearerAuth
// @Param        todoId  path  string  true  "Todo ID"
// @Success      204
// @Failure      403  {string}  string  "Not the owner"
// @Failure      404  {string}  string  "Todo not found"
// @Router       /todos/{todoId} [delete]
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	todoID := mux.Vars(r)["todoId"]

	if err := h.todos.DeleteTodo(r.Context(), middlewares.GetUserID(r), todoID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateUploadURL godoc
// @Summary      Get a presigned URL to upload the todo's attachment
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        todoId  path      string  true  "Todo ID"
// @Success      200     {object}  uploadURLResponse
// @Failure      403     {string}  string  "Not the owner"
// @Failure      404     {string}  string  "Todo not found"
// @Failure      502     {string}  string  "Storage unavailable"
// @Router       /todos/{todoId}/attachment [post]
func (h *TodoHandler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	todoID := mux.Vars(r)["todoId"]
	userID := middlewares.GetUserID(r)
	attachmentID := h.newID()

	uploadURL, err := h.todos.IssueUploadURL(r.Context(), attachmentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.todos.AssociateAttachment(r.Context(), userID, todoID, attachmentID); err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, uploadURLResponse{UploadURL: uploadURL})
}

func (h *TodoHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Todo item not found", http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case models.IsStorageError(err):
		http.Error(w, "Storage unavailable", http.StatusBadGateway)
	default:
		h.logger.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
