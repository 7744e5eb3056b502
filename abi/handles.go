package abi

import (
	"fmt"
	"sync"
)

const maxTableSize = 1 << 28

// table is a slot table with a free list. Slot 0 is never handed out, so a
// zero handle is always invalid.
type table[T any] struct {
	entries []tableEntry[T]
	free    []uint32
	live    int
}

type tableEntry[T any] struct {
	value T
	set   bool
}

func newTable[T any]() *table[T] {
	return &table[T]{
		entries: []tableEntry[T]{{set: false}},
	}
}

func (t *table[T]) add(entry T) (uint32, bool) {
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.entries[idx] = tableEntry[T]{value: entry, set: true}
		t.live++
		return idx, true
	}
	idx := uint32(len(t.entries))
	if idx >= maxTableSize {
		return 0, false
	}
	t.entries = append(t.entries, tableEntry[T]{value: entry, set: true})
	t.live++
	return idx, true
}

func (t *table[T]) get(idx uint32) (T, bool) {
	if idx >= uint32(len(t.entries)) || !t.entries[idx].set {
		var zero T
		return zero, false
	}
	return t.entries[idx].value, true
}

func (t *table[T]) remove(idx uint32) (T, bool) {
	v, ok := t.get(idx)
	if !ok {
		return v, false
	}
	t.entries[idx] = tableEntry[T]{}
	t.free = append(t.free, idx)
	t.live--
	return v, true
}

// HandleConverter maps delegate or callback-interface implementations to
// the handles that represent them on the other side of the boundary. It is
// safe for concurrent use.
type HandleConverter struct {
	name    string
	mu      sync.Mutex
	objects *table[any]
}

// NewHandleConverter returns an empty converter for the type with the given
// canonical name.
func NewHandleConverter(name string) *HandleConverter {
	return &HandleConverter{name: name, objects: newTable[any]()}
}

func (c *HandleConverter) Name() string { return c.name }

// Lower stores obj and returns its new handle.
func (c *HandleConverter) Lower(obj any) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.objects.add(obj)
	if !ok {
		return 0, fmt.Errorf("%w: handle table for %s is full", ErrInvalidValue, c.name)
	}
	return uint64(idx), nil
}

// Lift returns the object behind h without releasing it.
func (c *HandleConverter) Lift(h uint64) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h > maxTableSize {
		return nil, c.unknown(h)
	}
	obj, ok := c.objects.get(uint32(h))
	if !ok {
		return nil, c.unknown(h)
	}
	return obj, nil
}

// Drop releases h. The handle may be reused by a later Lower.
func (c *HandleConverter) Drop(h uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h > maxTableSize {
		return c.unknown(h)
	}
	if _, ok := c.objects.remove(uint32(h)); !ok {
		return c.unknown(h)
	}
	return nil
}

// Len is the number of live handles.
func (c *HandleConverter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.objects.live
}

func (c *HandleConverter) unknown(h uint64) error {
	return fmt.Errorf("%w: unknown handle %d for %s", ErrInvalidValue, h, c.name)
}
