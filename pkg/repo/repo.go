// Package repo defines the generic read-only repository used over the static
// catalog data, plus list options and pagination.
package repo

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("not found")

// Reader is a generic read-only repository.
type Reader[T any, ID comparable] interface {
	Get(ctx context.Context, id ID) (T, error)
	List(ctx context.Context, opts ListOpts) ([]T, error)
	Count(ctx context.Context) (int, error)
}

// ListOpts controls pagination for List operations. A Limit <= 0 means no
// limit.
type ListOpts struct {
	Offset int
	Limit  int
}

// Paginate returns the page of items described by opts. Out-of-range offsets
// yield an empty, non-nil slice.
func Paginate[T any](items []T, opts ListOpts) []T {
	start := max(opts.Offset, 0)
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Memory is an in-memory Reader over a fixed slice. Items keep insertion
// order; the backing slice is never exposed.
type Memory[T any, ID comparable] struct {
	label string
	items []T
	index map[ID]int
}

// NewMemory builds a Memory repository. Later items with a duplicate ID
// shadow earlier ones for Get, but List returns every item.
func NewMemory[T any, ID comparable](label string, items []T, id func(T) ID) *Memory[T, ID] {
	m := &Memory[T, ID]{
		label: label,
		items: make([]T, len(items)),
		index: make(map[ID]int, len(items)),
	}
	copy(m.items, items)
	for i, it := range m.items {
		m.index[id(it)] = i
	}
	return m
}

// Get returns the item with the given ID.
func (m *Memory[T, ID]) Get(_ context.Context, id ID) (T, error) {
	i, ok := m.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %v: %w", m.label, id, ErrNotFound)
	}
	return m.items[i], nil
}

// List returns a copy of one page of items.
func (m *Memory[T, ID]) List(_ context.Context, opts ListOpts) ([]T, error) {
	return Paginate(m.items, opts), nil
}

// Count returns the number of items.
func (m *Memory[T, ID]) Count(context.Context) (int, error) {
	return len(m.items), nil
}

// All returns a copy of every item.
func (m *Memory[T, ID]) All() []T {
	return Paginate(m.items, ListOpts{})
}
