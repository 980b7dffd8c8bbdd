package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/db"
	"todo-api/logging"
	"todo-api/models"
)

type fakeAttachments struct {
	err error
}

func (f *fakeAttachments) PublicURL(attachmentID string) string {
	return "https://todo-attachments.s3.amazonaws.com/" + attachmentID
}

func (f *fakeAttachments) UploadURL(_ context.Context, attachmentID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.PublicURL(attachmentID) + "?signature=x", nil
}

// failingStore wraps a real store and fails the named operations.
type failingStore struct {
	TodoStore
	fail map[string]bool
}

func (f *failingStore) Create(ctx context.Context, item models.TodoItem) error {
	if f.fail["create"] {
		return models.NewStorageError("create", errors.New("unreachable"))
	}
	return f.TodoStore.Create(ctx, item)
}

func (f *failingStore) GetByID(ctx context.Context, todoID string) (models.TodoItem, bool, error) {
	if f.fail["get"] {
		return models.TodoItem{}, false, models.NewStorageError("get", errors.New("unreachable"))
	}
	return f.TodoStore.GetByID(ctx, todoID)
}

func (f *failingStore) ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error) {
	if f.fail["list"] {
		return nil, models.NewStorageError("list", errors.New("unreachable"))
	}
	return f.TodoStore.ListByUser(ctx, userID)
}

func (f *failingStore) Update(ctx context.Context, todoID string, update models.TodoUpdate) error {
	if f.fail["update"] {
		return models.NewStorageError("update", errors.New("unreachable"))
	}
	return f.TodoStore.Update(ctx, todoID, update)
}

func (f *failingStore) UpdateAttachmentURL(ctx context.Context, todoID, url string) error {
	if f.fail["attach"] {
		return models.NewStorageError("update attachment", errors.New("unreachable"))
	}
	return f.TodoStore.UpdateAttachmentURL(ctx, todoID, url)
}

func (f *failingStore) Delete(ctx context.Context, todoID string) error {
	if f.fail["delete"] {
		return models.NewStorageError("delete", errors.New("unreachable"))
	}
	return f.TodoStore.Delete(ctx, todoID)
}

func newTestService(t *testing.T) (*TodoService, *db.MemoryStore) {
	t.Helper()
	store := db.NewMemoryStore()
	return NewTodoService(store, &fakeAttachments{}, logging.Discard()), store
}

func mustCreate(t *testing.T, svc *TodoService, userID, name string) models.TodoItem {
	t.Helper()
	item, err := svc.CreateTodo(context.Background(), userID, models.CreateTodoRequest{Name: name, DueDate: "2025-06-01"})
	require.NoError(t, err)
	return item
}

func TestCreateTodo(t *testing.T) {
	svc, store := newTestService(t)
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	item := mustCreate(t, svc, "u1", "Buy milk")

	assert.Equal(t, "u1", item.UserID)
	assert.NotEmpty(t, item.TodoID)
	assert.Equal(t, "Buy milk", item.Name)
	assert.False(t, item.Done)
	assert.Nil(t, item.AttachmentURL)
	assert.Equal(t, fixed, item.CreatedAt)

	stored, found, err := store.GetByID(context.Background(), item.TodoID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, stored)
}

func TestCreateTodoIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		item := mustCreate(t, svc, "u1", fmt.Sprintf("todo %d", i))
		assert.False(t, seen[item.TodoID], "duplicate todo id %s", item.TodoID)
		seen[item.TodoID] = true
	}
}

func TestCreateTodoRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{Name: "   "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateTodoSurfacesStorageFailure(t *testing.T) {
	store := &failingStore{TodoStore: db.NewMemoryStore(), fail: map[string]bool{"create": true}}
	svc := NewTodoService(store, &fakeAttachments{}, logging.Discard())

	_, err := svc.CreateTodo(context.Background(), "u1", models.CreateTodoRequest{Name: "x"})
	require.Error(t, err)
	assert.True(t, models.IsStorageError(err))
}

func TestListTodosReturnsOnlyCallersItems(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustCreate(t, svc, "u1", "a")
	mustCreate(t, svc, "u2", "b")
	c := mustCreate(t, svc, "u1", "c")

	items, err := svc.ListTodos(context.Background(), "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		assert.Equal(t, "u1", item.UserID)
		ids = append(ids, item.TodoID)
	}
	assert.ElementsMatch(t, []string{a.TodoID, c.TodoID}, ids)

	items, err = svc.ListTodos(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListTodosSurfacesStorageFailure(t *testing.T) {
	store := &failingStore{TodoStore: db.NewMemoryStore(), fail: map[string]bool{"list": true}}
	svc := NewTodoService(store, &fakeAttachments{}, logging.Discard())

	items, err := svc.ListTodos(context.Background(), "u1")
	assert.Nil(t, items)
	assert.True(t, models.IsStorageError(err))
}

func TestUpdateTodoChangesOnlyMutableFields(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "u1", "Buy milk")
	_, err := svc.AssociateAttachment(ctx, "u1", item.TodoID, "a1")
	require.NoError(t, err)
	before, _, _ := store.GetByID(ctx, item.TodoID)

	err = svc.UpdateTodo(ctx, "u1", item.TodoID, models.UpdateTodoRequest{Name: "X", DueDate: "2025-01-01", Done: true})
	require.NoError(t, err)

	after, found, err := store.GetByID(ctx, item.TodoID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "X", after.Name)
	assert.Equal(t, "2025-01-01", after.DueDate)
	assert.True(t, after.Done)
	assert.Equal(t, before.TodoID, after.TodoID)
	assert.Equal(t, before.UserID, after.UserID)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, before.AttachmentURL, after.AttachmentURL)
}

func TestUpdateAndDeleteGates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owned := mustCreate(t, svc, "u1", "mine")
	req := models.UpdateTodoRequest{Name: "stolen", Done: true}

	t.Run("missing todo", func(t *testing.T) {
		assert.ErrorIs(t, svc.UpdateTodo(ctx, "u1", "missing", req), models.ErrNotFound)
		assert.ErrorIs(t, svc.DeleteTodo(ctx, "u1", "missing"), models.ErrNotFound)
		_, err := svc.AssociateAttachment(ctx, "u1", "missing", "a1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("other owner", func(t *testing.T) {
		assert.ErrorIs(t, svc.UpdateTodo(ctx, "u2", owned.TodoID, req), models.ErrUnauthorized)
		assert.ErrorIs(t, svc.DeleteTodo(ctx, "u2", owned.TodoID), models.ErrUnauthorized)
		_, err := svc.AssociateAttachment(ctx, "u2", owned.TodoID, "a1")
		assert.ErrorIs(t, err, models.ErrUnauthorized)

		stored, found, err := store.GetByID(ctx, owned.TodoID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, owned, stored)
	})
}

func TestUpdateTodoRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	item := mustCreate(t, svc, "u1", "a")

	err := svc.UpdateTodo(context.Background(), "u1", item.TodoID, models.UpdateTodoRequest{Name: ""})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateTodoSurfacesStorageFailures(t *testing.T) {
	inner := db.NewMemoryStore()
	svc := NewTodoService(inner, &fakeAttachments{}, logging.Discard())
	item := mustCreate(t, svc, "u1", "a")

	for _, op := range []string{"get", "update"} {
		t.Run(op, func(t *testing.T) {
			failing := NewTodoService(&failingStore{TodoStore: inner, fail: map[string]bool{op: true}}, &fakeAttachments{}, logging.Discard())
			err := failing.UpdateTodo(context.Background(), "u1", item.TodoID, models.UpdateTodoRequest{Name: "b"})
			assert.True(t, models.IsStorageError(err))
			assert.False(t, errors.Is(err, models.ErrNotFound))
		})
	}
}

func TestDeleteTodoRemovesItem(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "u1", "a")

	require.NoError(t, svc.DeleteTodo(ctx, "u1", item.TodoID))

	_, found, err := store.GetByID(ctx, item.TodoID)
	require.NoError(t, err)
	assert.False(t, found)
	items, err := svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, "u1", item.TodoID), models.ErrNotFound)
}

func TestDeleteTodoSurfacesStorageFailures(t *testing.T) {
	inner := db.NewMemoryStore()
	svc := NewTodoService(inner, &fakeAttachments{}, logging.Discard())
	item := mustCreate(t, svc, "u1", "a")

	for _, op := range []string{"get", "delete"} {
		t.Run(op, func(t *testing.T) {
			failing := NewTodoService(&failingStore{TodoStore: inner, fail: map[string]bool{op: true}}, &fakeAttachments{}, logging.Discard())
			err := failing.DeleteTodo(context.Background(), "u1", item.TodoID)
			assert.True(t, models.IsStorageError(err))
			assert.False(t, errors.Is(err, models.ErrNotFound))
		})
	}

	_, found, err := inner.GetByID(context.Background(), item.TodoID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAssociateAttachmentSurfacesStorageFailures(t *testing.T) {
	inner := db.NewMemoryStore()
	svc := NewTodoService(inner, &fakeAttachments{}, logging.Discard())
	item := mustCreate(t, svc, "u1", "a")

	for _, op := range []string{"get", "attach"} {
		t.Run(op, func(t *testing.T) {
			failing := NewTodoService(&failingStore{TodoStore: inner, fail: map[string]bool{op: true}}, &fakeAttachments{}, logging.Discard())
			url, err := failing.AssociateAttachment(context.Background(), "u1", item.TodoID, "a1")
			assert.True(t, models.IsStorageError(err))
			assert.Empty(t, url)
		})
	}

	stored, _, err := inner.GetByID(context.Background(), item.TodoID)
	require.NoError(t, err)
	assert.Nil(t, stored.AttachmentURL)
}

func TestAssociateAttachment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	item := mustCreate(t, svc, "u1", "a")

	url, err := svc.AssociateAttachment(ctx, "u1", item.TodoID, "a1")
	require.NoError(t, err)
	assert.Equal(t, "https://todo-attachments.s3.amazonaws.com/a1", url)

	stored, _, _ := store.GetByID(ctx, item.TodoID)
	require.NotNil(t, stored.AttachmentURL)
	assert.Equal(t, url, *stored.AttachmentURL)
	assert.Equal(t, item.Name, stored.Name)
}

func TestIssueUploadURL(t *testing.T) {
	svc, _ := newTestService(t)

	url, err := svc.IssueUploadURL(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "https://todo-attachments.s3.amazonaws.com/a1?signature=x", url)

	failing := NewTodoService(db.NewMemoryStore(), &fakeAttachments{err: models.NewStorageError("presign put", errors.New("bad creds"))}, logging.Discard())
	_, err = failing.IssueUploadURL(context.Background(), "a1")
	assert.True(t, models.IsStorageError(err))
}

func TestScenarioCreateUpdateDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateTodo(ctx, "u1", models.CreateTodoRequest{Name: "Buy milk", DueDate: "2025-06-01"})
	require.NoError(t, err)
	assert.False(t, item.Done)
	assert.Nil(t, item.AttachmentURL)

	require.NoError(t, svc.UpdateTodo(ctx, "u1", item.TodoID, models.UpdateTodoRequest{Name: "Buy oat milk", DueDate: "2025-06-02", Done: true}))
	stored, _, _ := store.GetByID(ctx, item.TodoID)
	assert.Equal(t, "Buy oat milk", stored.Name)
	assert.True(t, stored.Done)

	require.NoError(t, svc.DeleteTodo(ctx, "u1", item.TodoID))
	items, err := svc.ListTodos(ctx, "u1")
	require.NoError(t, err)
	for _, it := range items {
		assert.NotEqual(t, item.TodoID, it.TodoID)
	}
}
