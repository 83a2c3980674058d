// Package symbols provides generic address keyed symbol management.
package symbols

import (
	"sort"
)

// Manager tracks items by address and remembers the order in which
// addresses were first added.
// T is the type of symbol being managed (e.g., *disasm.Routine).
type Manager[T any] struct {
	items map[uint16]T
	order []uint16
}

// New creates a new symbol manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{
		items: make(map[uint16]T),
	}
}

// Get returns the item at the given address.
func (m *Manager[T]) Get(address uint16) (T, bool) {
	item, ok := m.items[address]
	return item, ok
}

// Set sets the item at the given address. Replacing an existing item keeps
// its position in the insertion order.
func (m *Manager[T]) Set(address uint16, item T) {
	if _, ok := m.items[address]; !ok {
		m.order = append(m.order, address)
	}
	m.items[address] = item
}

// Len returns the number of items in the manager.
func (m *Manager[T]) Len() int {
	return len(m.items)
}

// Ordered returns all items in the order their addresses were first added.
func (m *Manager[T]) Ordered() []T {
	items := make([]T, 0, len(m.order))
	for _, address := range m.order {
		items = append(items, m.items[address])
	}
	return items
}

// SortedByUint16 returns all items as a slice sorted by a uint16 key.
// The keyFunc extracts the sort key from each item.
func (m *Manager[T]) SortedByUint16(keyFunc func(T) uint16) []T {
	items := m.Ordered()
	sort.SliceStable(items, func(i, j int) bool {
		return keyFunc(items[i]) < keyFunc(items[j])
	})
	return items
}
