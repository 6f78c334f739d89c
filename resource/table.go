package resource

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations against a closed table.
var ErrClosed = errors.New("resource table closed")

// Handle is an opaque reference to a facility in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Dropper is optionally implemented by facility values that need cleanup
// when removed or at host teardown.
type Dropper interface {
	Drop()
}

type entry struct {
	value  any
	typeID uint32
	key    string
	valid  bool
}

// Table is an in-memory facility table with free-list handle reuse.
// Safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	entries  []entry
	freeList []Handle
	named    map[string]Handle
	closed   bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make([]entry, 0, 16),
		named:   make(map[string]Handle),
	}
}

// Insert stores a value under a type id and returns its handle,
// or 0 if the table is closed.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0
	}
	return t.insertLocked(typeID, "", value)
}

func (t *Table) insertLocked(typeID uint32, key string, value any) Handle {
	e := entry{typeID: typeID, key: key, value: value, valid: true}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return nil, false
	}
	return t.entries[idx].value, true
}

// GetTyped retrieves a value only if it was stored under typeID.
func (t *Table) GetTyped(h Handle, typeID uint32) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid || t.entries[idx].typeID != typeID {
		return nil, false
	}
	return t.entries[idx].value, true
}

// GetOrCreate returns the facility registered under key, building and
// inserting it on first use. build runs under the table lock, so it must
// not call back into the table.
func (t *Table) GetOrCreate(typeID uint32, key string, build func() any) (any, Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, 0
	}
	if h, ok := t.named[key]; ok {
		return t.entries[h-1].value, h
	}

	v := build()
	h := t.insertLocked(typeID, key, v)
	t.named[key] = h
	return v, h
}

// Remove drops a facility, running its Dropper if any, and returns the
// removed value.
func (t *Table) Remove(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		t.mu.Unlock()
		return nil, false
	}

	e := &t.entries[idx]
	value := e.value
	if e.key != "" {
		delete(t.named, e.key)
	}
	e.valid = false
	e.value = nil
	e.key = ""
	t.freeList = append(t.freeList, h)
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	return value, true
}

// Len returns the number of live facilities.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Close drops every facility and stops accepting operations.
// Called once at host teardown.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var droppers []Dropper
	for i := range t.entries {
		if !t.entries[i].valid {
			continue
		}
		if d, ok := t.entries[i].value.(Dropper); ok {
			droppers = append(droppers, d)
		}
		t.entries[i].valid = false
		t.entries[i].value = nil
	}
	t.entries = nil
	t.freeList = nil
	t.named = nil
	t.mu.Unlock()

	for _, d := range droppers {
		d.Drop()
	}
	return nil
}
