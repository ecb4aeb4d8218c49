package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStorage is an in-memory storage implementation with the same ownership
// semantics as postgresStorage. It backs the handler tests and can serve as
// a throwaway backend during local development.
type memStorage struct {
	mu    sync.RWMutex
	seq   int
	users map[uuid.UUID]user
	lists map[uuid.UUID]todoList
	items map[uuid.UUID]todoItem
	order map[uuid.UUID]int
}

func newMemStorage() *memStorage {
	return &memStorage{
		users: make(map[uuid.UUID]user),
		lists: make(map[uuid.UUID]todoList),
		items: make(map[uuid.UUID]todoItem),
		order: make(map[uuid.UUID]int),
	}
}

// listSeq records insertion order where the database would sort by
// created_at; wall-clock timestamps are too coarse to order rows created
// within the same test. Callers hold s.mu.
func (s *memStorage) listSeq(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

func (s *memStorage) insertUser(_ context.Context, email, username string, passwordHash []byte) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, errDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u := user{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *memStorage) getUserByEmail(_ context.Context, email string) (*user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errNotFound
}

func (s *memStorage) getUserByID(_ context.Context, id uuid.UUID) (*user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errNotFound
	}
	return &u, nil
}

func (s *memStorage) insertTodoList(_ context.Context, userID uuid.UUID, title string, description *string) (*todoList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	list := todoList{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.listSeq(list.ID)
	s.lists[list.ID] = list
	list.Items = []todoItem{}
	return &list, nil
}

func (s *memStorage) getTodoListByID(_ context.Context, id, userID uuid.UUID) (*todoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[id]
	if !ok || list.UserID != userID {
		return nil, errNotFound
	}
	list.Items = s.itemsOf(id)
	return &list, nil
}

func (s *memStorage) getTodoLists(_ context.Context, userID uuid.UUID, offset, limit int) ([]todoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lists := []todoList{}
	for _, list := range s.lists {
		if list.UserID == userID {
			lists = append(lists, list)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		return s.order[lists[i].ID] < s.order[lists[j].ID]
	})
	if offset >= len(lists) {
		return []todoList{}, nil
	}
	end := offset + limit
	if end > len(lists) {
		end = len(lists)
	}
	return lists[offset:end], nil
}

func (s *memStorage) countTodoLists(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, list := range s.lists {
		if list.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *memStorage) updateTodoList(_ context.Context, list *todoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.lists[list.ID]
	if !ok || stored.UserID != list.UserID {
		return errNotFound
	}
	stored.Title = list.Title
	stored.Description = list.Description
	stored.UpdatedAt = time.Now().UTC()
	s.lists[stored.ID] = stored
	list.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *memStorage) deleteTodoList(_ context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[id]
	if !ok || list.UserID != userID {
		return errNotFound
	}
	delete(s.lists, id)
	// mirror the ON DELETE CASCADE on todo_items
	for itemID, item := range s.items {
		if item.TodoID == id {
			delete(s.items, itemID)
		}
	}
	return nil
}

func (s *memStorage) insertTodoItem(_ context.Context, listID, userID uuid.UUID, title string, description *string) (*todoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return nil, errNotFound
	}
	now := time.Now().UTC()
	item := todoItem{
		ID:          uuid.New(),
		TodoID:      listID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.listSeq(item.ID)
	s.items[item.ID] = item
	return &item, nil
}

func (s *memStorage) getTodoItemByID(_ context.Context, listID, itemID, userID uuid.UUID) (*todoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return nil, errNotFound
	}
	item, ok := s.items[itemID]
	if !ok || item.TodoID != listID {
		return nil, errNotFound
	}
	return &item, nil
}

func (s *memStorage) getTodoItems(_ context.Context, listID, userID uuid.UUID, offset, limit int) ([]todoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return []todoItem{}, nil
	}
	items := s.itemsOf(list.ID)
	if offset >= len(items) {
		return []todoItem{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (s *memStorage) countTodoItems(_ context.Context, listID, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return 0, errNotFound
	}
	return len(s.itemsOf(listID)), nil
}

func (s *memStorage) updateTodoItem(_ context.Context, userID uuid.UUID, item *todoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[item.TodoID]
	if !ok || list.UserID != userID {
		return errNotFound
	}
	stored, ok := s.items[item.ID]
	if !ok || stored.TodoID != item.TodoID {
		return errNotFound
	}
	stored.Title = item.Title
	stored.Description = item.Description
	stored.Completed = item.Completed
	stored.UpdatedAt = time.Now().UTC()
	s.items[stored.ID] = stored
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *memStorage) deleteTodoItem(_ context.Context, listID, itemID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return errNotFound
	}
	item, ok := s.items[itemID]
	if !ok || item.TodoID != listID {
		return errNotFound
	}
	delete(s.items, itemID)
	return nil
}

// itemsOf returns the items of a list in insertion order. Callers hold s.mu.
func (s *memStorage) itemsOf(listID uuid.UUID) []todoItem {
	items := []todoItem{}
	for _, item := range s.items {
		if item.TodoID == listID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return s.order[items[i].ID] < s.order[items[j].ID]
	})
	return items
}
