package storage

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/core"
	"ledger/internal/reports"
)

// memCategory pairs a category with its kind, matching the categories
// table's kind column.
type memCategory struct {
	core.Category
	kind core.EntryType
}

// MemoryStore is an in-process entry store for development and tests. It
// mirrors the SQLiteRepository surface: filtered fetches, soft deletes and
// a fixed category set.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []core.Entry
	deleted map[int64]bool
	cats    []memCategory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		deleted: make(map[int64]bool),
		cats: []memCategory{
			{core.Category{ID: 1, Name: "Salary", Color: "#22c55e"}, core.Income},
			{core.Category{ID: 2, Name: "Food", Color: "#ef4444"}, core.Expense},
			{core.Category{ID: 3, Name: "Housing", Color: "#f97316"}, core.Expense},
			{core.Category{ID: 4, Name: "Transport", Color: "#eab308"}, core.Expense},
			{core.Category{ID: 5, Name: "Other", Color: "#6b7280"}, core.Expense},
		},
	}
}

// FetchEntries implements reports.EntrySource.
func (s *MemoryStore) FetchEntries(_ context.Context, f reports.Filter) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Entry
	for _, e := range s.entries {
		if s.deleted[e.ID] {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if !f.Range.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) CreateEntry(_ context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, fmt.Errorf("validate entry: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *MemoryStore) SoftDeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id && !s.deleted[id] {
			s.deleted[id] = true
			return nil
		}
	}
	return fmt.Errorf("entry %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) GetEntry(_ context.Context, id int64) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id && !s.deleted[id] {
			return e, nil
		}
	}
	return core.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) ListCategories(_ context.Context, kind core.EntryType) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Category
	for _, c := range s.cats {
		if kind != "" && c.kind != kind {
			continue
		}
		out = append(out, c.Category)
	}
	return out, nil
}

func (s *MemoryStore) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cats {
		if c.ID == id {
			return c.Category, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
}
