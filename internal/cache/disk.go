package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Disk persists compressed PCM across sessions so a restarted assistant
// still skips synthesis for phrases it has spoken before.
type Disk struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry
	mu    sync.Mutex
}

type diskEntry struct {
	Key        string
	FilePath   string
	Size       int64 // bytes on disk, compressed
	LastAccess time.Time
	Compressed bool
}

// NewDisk opens (or creates) a disk cache rooted at basePath, bounded to
// capacity bytes on disk.
func NewDisk(basePath string, capacity int64) (*Disk, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	d := &Disk{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*diskEntry),
	}

	// A corrupt or missing index means starting empty, not failing.
	if err := d.loadIndex(); err != nil {
		d.index = make(map[string]*diskEntry)
	}
	for _, entry := range d.index {
		d.size += entry.Size
	}
	return d, nil
}

// Get reads and decompresses a cached value. Entries whose files have gone
// missing are dropped from the index.
func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.index[key]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		d.drop(entry)
		return nil, false
	}
	if entry.Compressed {
		data, err = d.decoder.DecodeAll(data, nil)
		if err != nil {
			os.Remove(entry.FilePath)
			d.drop(entry)
			return nil, false
		}
	}

	entry.LastAccess = time.Now()
	return data, true
}

// Put compresses and stores a value, evicting least recently used entries
// to stay under capacity.
func (d *Disk) Put(key string, value []byte) error {
	compressed := d.encoder.EncodeAll(value, nil)
	data := compressed
	isCompressed := true
	if len(compressed) >= len(value) {
		data = value
		isCompressed = false
	}
	diskSize := int64(len(data))
	if diskSize > d.capacity {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.index[key]; ok {
		os.Remove(existing.FilePath)
		d.drop(existing)
	}
	for d.size+diskSize > d.capacity && len(d.index) > 0 {
		d.evictOldest()
	}

	path := d.entryPath(key)
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	d.index[key] = &diskEntry{
		Key:        key,
		FilePath:   path,
		Size:       diskSize,
		LastAccess: time.Now(),
		Compressed: isCompressed,
	}
	d.size += diskSize
	return nil
}

// Size returns the bytes currently used on disk.
func (d *Disk) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Close persists the index.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveIndex()
}

// drop removes an entry from the index. Caller holds the lock.
func (d *Disk) drop(entry *diskEntry) {
	delete(d.index, entry.Key)
	d.size -= entry.Size
}

// evictOldest removes the least recently accessed entry. Caller holds the
// lock.
func (d *Disk) evictOldest() {
	var oldest *diskEntry
	for _, entry := range d.index {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldest = entry
		}
	}
	if oldest != nil {
		os.Remove(oldest.FilePath)
		d.drop(oldest)
	}
}

func (d *Disk) entryPath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(d.basePath, hex.EncodeToString(hash[:16])+".cache")
}

func (d *Disk) loadIndex() error {
	file, err := os.Open(filepath.Join(d.basePath, "cache.index"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(&d.index)
}

func (d *Disk) saveIndex() error {
	path := filepath.Join(d.basePath, "cache.index")
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(file).Encode(d.index)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

// writeAtomic writes via a temp file and rename so a crash never leaves a
// half-written cache entry behind.
func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}
