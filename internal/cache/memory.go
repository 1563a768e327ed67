package cache

import (
	"container/list"
	"sync"
)

// Memory is a byte-bounded LRU cache holding raw PCM for the utterances
// spoken most recently.
type Memory struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex
}

type memoryEntry struct {
	key   string
	value []byte
}

// NewMemory creates a memory cache bounded to capacity bytes.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get returns the cached value and marks it most recently used.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, false
	}
	m.eviction.MoveToFront(elem)
	return elem.Value.(*memoryEntry).value, true
}

// Put stores a value, evicting least recently used entries to stay under
// capacity. Values larger than the whole cache are silently skipped.
func (m *Memory) Put(key string, value []byte) {
	size := int64(len(value))
	if size > m.capacity {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		m.size += size - int64(len(entry.value))
		entry.value = value
		m.eviction.MoveToFront(elem)
		return
	}

	for m.size+size > m.capacity && m.eviction.Len() > 0 {
		m.evictOldest()
	}

	m.items[key] = m.eviction.PushFront(&memoryEntry{key: key, value: value})
	m.size += size
}

// Size returns the current size in bytes.
func (m *Memory) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (m *Memory) evictOldest() {
	elem := m.eviction.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*memoryEntry)
	m.eviction.Remove(elem)
	delete(m.items, entry.key)
	m.size -= int64(len(entry.value))
}
