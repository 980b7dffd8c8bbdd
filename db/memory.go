package db

import (
	"context"
	"sync"

	"todo-api/models"
)

// MemoryStore is a process-local store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.TodoItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.TodoItem)}
}

func (s *MemoryStore) Create(_ context.Context, item models.TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.TodoID] = cloneItem(item)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, todoID string) (models.TodoItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[todoID]
	if !ok {
		return models.TodoItem{}, false, nil
	}
	return cloneItem(item), true, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.TodoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []models.TodoItem{}
	for _, item := range s.items {
		if item.UserID == userID {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (s *MemoryStore) Update(_ context.Context, todoID string, update models.TodoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[todoID]
	if !ok {
		return nil
	}
	item.Name = update.Name
	item.DueDate = update.DueDate
	item.Done = update.Done
	s.items[todoID] = item
	return nil
}

func (s *MemoryStore) UpdateAttachmentURL(_ context.Context, todoID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[todoID]
	if !ok {
		return nil
	}
	item.AttachmentURL = &url
	s.items[todoID] = item
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, todoID)
	return nil
}

func cloneItem(item models.TodoItem) models.TodoItem {
	if item.AttachmentURL != nil {
		url := *item.AttachmentURL
		item.AttachmentURL = &url
	}
	return item
}
