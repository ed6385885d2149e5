package container

import (
	"fmt"
	"sync"
)

// Table is an identifier table that backends embed to map IDs to their
// native objects. It is safe for concurrent use.
type Table[T any] struct {
	mu   sync.Mutex
	next ID
	objs map[ID]T
}

// Put stores obj and returns its new identifier.
func (t *Table[T]) Put(obj T) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.objs == nil {
		t.objs = make(map[ID]T)
	}
	id := t.next
	t.next++
	t.objs[id] = obj
	return id
}

// Get returns the object registered under id.
func (t *Table[T]) Get(id ID) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objs[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return obj, nil
}

// Remove unregisters id and returns the object it referred to.
func (t *Table[T]) Remove(id ID) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obj, ok := t.objs[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	delete(t.objs, id)
	return obj, nil
}

// Len returns the number of live identifiers.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objs)
}
