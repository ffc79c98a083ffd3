package tracker

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Update records one UpdateFields call against a Memory tracker.
type Update struct {
	ID     string
	Fields Fields
}

// Memory is an in-process tracker. It backs tests and offline runs.
type Memory struct {
	mu      sync.Mutex
	items   map[string]*ItemDetails
	nextID  int
	updates []Update

	// Fail, when set, is consulted before every call and its error returned.
	Fail func(op, id string) error
}

// NewMemory returns a tracker holding copies of items. Items without an ID
// are numbered like created ones.
func NewMemory(items ...ItemDetails) *Memory {
	m := &Memory{items: make(map[string]*ItemDetails), nextID: 1000}
	for _, it := range items {
		if it.ID == "" {
			m.nextID++
			it.ID = strconv.Itoa(m.nextID)
		}
		m.put(it)
	}
	return m
}

func (m *Memory) put(it ItemDetails) {
	cp := it
	cp.Tags = slices.Clone(it.Tags)
	m.items[it.ID] = &cp
}

func (m *Memory) fail(op, id string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(op, id)
}

func (m *Memory) QueryByTag(_ context.Context, tag string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("query", ""); err != nil {
		return nil, err
	}

	var ids []string
	for id, it := range m.items {
		if it.HasTag(tag) {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, compareIDs)
	return ids, nil
}

func (m *Memory) GetDetails(_ context.Context, id string) (*ItemDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("get", id); err != nil {
		return nil, err
	}

	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	cp := *it
	cp.Tags = slices.Clone(it.Tags)
	return &cp, nil
}

func (m *Memory) UpdateFields(_ context.Context, id string, f Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update", id); err != nil {
		return err
	}

	it, ok := m.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if f.StartDate != nil {
		it.StartDate = copyTime(f.StartDate)
	}
	if f.TargetDate != nil {
		it.TargetDate = copyTime(f.TargetDate)
	}
	m.updates = append(m.updates, Update{ID: id, Fields: Fields{StartDate: copyTime(f.StartDate), TargetDate: copyTime(f.TargetDate)}})
	return nil
}

func (m *Memory) CreateItem(_ context.Context, item NewItem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create", ""); err != nil {
		return "", err
	}

	m.nextID++
	id := strconv.Itoa(m.nextID)
	m.put(ItemDetails{ID: id, Type: item.Type, Title: item.Title, State: item.State, Tags: item.Tags})
	return id, nil
}

func (m *Memory) AddParentRelation(_ context.Context, childID, parentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("relate", childID); err != nil {
		return err
	}

	child, ok := m.items[childID]
	if !ok {
		return fmt.Errorf("item %s: %w", childID, ErrNotFound)
	}
	if _, ok := m.items[parentID]; !ok {
		return fmt.Errorf("item %s: %w", parentID, ErrNotFound)
	}
	child.ParentID = parentID
	return nil
}

// Updates returns every recorded UpdateFields call in order.
func (m *Memory) Updates() []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.updates)
}

// Item returns a copy of a stored item, or nil.
func (m *Memory) Item(id string) *ItemDetails {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil
	}
	cp := *it
	return &cp
}

// compareIDs orders numeric IDs numerically and everything else lexically.
func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na - nb
	}
	return strings.Compare(a, b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
