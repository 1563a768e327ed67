package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryLRUEviction(t *testing.T) {
	m := NewMemory(10)

	m.Put("a", []byte("aaaa"))
	m.Put("b", []byte("bbbb"))
	if _, ok := m.Get("a"); !ok {
		t.Fatal("a missing before eviction")
	}

	// "a" was just touched, so adding "c" must evict "b".
	m.Put("c", []byte("cccc"))
	if _, ok := m.Get("b"); ok {
		t.Error("b survived eviction, want it gone")
	}
	if _, ok := m.Get("a"); !ok {
		t.Error("a evicted despite being most recently used")
	}
	if _, ok := m.Get("c"); !ok {
		t.Error("c missing after insert")
	}
}

func TestMemoryOversizeValueSkipped(t *testing.T) {
	m := NewMemory(4)
	m.Put("big", []byte("too large to fit"))
	if _, ok := m.Get("big"); ok {
		t.Error("oversize value was cached")
	}
	if m.Size() != 0 {
		t.Errorf("size = %d after skipped put, want 0", m.Size())
	}
}

func TestMemoryUpdateExisting(t *testing.T) {
	m := NewMemory(100)
	m.Put("k", []byte("old"))
	m.Put("k", []byte("newer"))

	got, ok := m.Get("k")
	if !ok || string(got) != "newer" {
		t.Fatalf("Get = %q, %v, want updated value", got, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	if m.Size() != int64(len("newer")) {
		t.Errorf("Size = %d, want %d", m.Size(), len("newer"))
	}
}

func TestDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()

	d, err := NewDisk(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	pcm := bytes.Repeat([]byte{0x01, 0x02}, 4096)
	if err := d.Put("utterance", pcm); err != nil {
		t.Fatal(err)
	}

	got, ok := d.Get("utterance")
	if !ok {
		t.Fatal("entry missing after Put")
	}
	if !bytes.Equal(got, pcm) {
		t.Error("round-tripped value differs")
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	// A new instance over the same directory must see the saved index.
	d2, err := NewDisk(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	got, ok = d2.Get("utterance")
	if !ok || !bytes.Equal(got, pcm) {
		t.Error("entry missing after reopen")
	}
}

func TestDiskMissingFileDropped(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Put("k", []byte("value")); err != nil {
		t.Fatal(err)
	}

	// Delete the backing file behind the cache's back.
	matches, _ := filepath.Glob(filepath.Join(dir, "*.cache"))
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			t.Fatal(err)
		}
	}

	if _, ok := d.Get("k"); ok {
		t.Error("Get succeeded with the backing file gone")
	}
	if d.Size() != 0 {
		t.Errorf("Size = %d after dropped entry, want 0", d.Size())
	}
}

func TestStoreDiskHitPromotesToMemory(t *testing.T) {
	dir := t.TempDir()
	s, err := New(1<<20, dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	pcm := bytes.Repeat([]byte{0xAB}, 2048)
	s.Put("k", pcm)

	// Fresh store over the same directory: memory is cold, disk warm.
	s2, err := New(1<<20, dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s2.Get("k"); !ok {
		t.Fatal("disk entry missing in new store")
	}
	if _, ok := s2.memory.Get("k"); !ok {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestStoreMemoryOnly(t *testing.T) {
	s, err := New(1<<20, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	s.Put("k", []byte("v"))
	if got, ok := s.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
