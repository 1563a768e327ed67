// Package cache stores synthesized speech audio so repeated phrases are
// played from memory or disk instead of re-synthesized over the network.
package cache

import (
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Store layers a fast in-memory LRU over an optional persistent disk
// cache. It satisfies the engines.Cache interface.
type Store struct {
	memory *Memory
	disk   *Disk
}

// New creates a store with the given memory budget. dir may be empty for a
// memory-only cache; diskCapacity is ignored then.
func New(memCapacity int64, dir string, diskCapacity int64) (*Store, error) {
	s := &Store{memory: NewMemory(memCapacity)}
	if dir != "" {
		disk, err := NewDisk(dir, diskCapacity)
		if err != nil {
			return nil, err
		}
		s.disk = disk
		log.Debug("synthesis cache opened",
			"dir", dir,
			"used", humanize.Bytes(uint64(disk.Size())))
	}
	return s, nil
}

// Get checks memory first, then disk. Disk hits are promoted to memory.
func (s *Store) Get(key string) ([]byte, bool) {
	if pcm, ok := s.memory.Get(key); ok {
		return pcm, true
	}
	if s.disk == nil {
		return nil, false
	}
	pcm, ok := s.disk.Get(key)
	if !ok {
		return nil, false
	}
	s.memory.Put(key, pcm)
	return pcm, true
}

// Put stores the value in both layers.
func (s *Store) Put(key string, pcm []byte) {
	s.memory.Put(key, pcm)
	if s.disk != nil {
		if err := s.disk.Put(key, pcm); err != nil {
			log.Warn("failed to persist cache entry", "error", err)
		}
	}
}

// Close flushes the disk index.
func (s *Store) Close() error {
	if s.disk != nil {
		return s.disk.Close()
	}
	return nil
}
