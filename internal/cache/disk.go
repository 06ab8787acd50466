package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// compressThreshold skips compression for payloads too small to benefit.
const compressThreshold = 1024

// diskStore is the persistent half of the cache. Audio is written one file
// per key, zstd compressed, with a gob index for metadata.
type diskStore struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry

	mu sync.Mutex
}

type diskEntry struct {
	Path       string
	Size       int64
	Compressed bool
	Stored     time.Time
	LastAccess time.Time
}

func newDiskStore(dir string, capacity int64) (*diskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	d := &diskStore{
		dir:      dir,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*diskEntry),
	}

	// A broken index is not fatal; start empty and let files be re-cached.
	if err := d.loadIndex(); err != nil {
		d.index = make(map[string]*diskEntry)
	}
	for _, entry := range d.index {
		d.size += entry.Size
	}

	return d, nil
}

func (d *diskStore) get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.index[key]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		d.dropLocked(key, entry)
		return nil, false
	}

	if entry.Compressed {
		data, err = d.decoder.DecodeAll(data, nil)
		if err != nil {
			d.dropLocked(key, entry)
			return nil, false
		}
	}

	entry.LastAccess = time.Now()
	return data, true
}

func (d *diskStore) put(key string, value []byte) error {
	payload := value
	compressed := false
	if len(value) > compressThreshold {
		if c := d.encoder.EncodeAll(value, nil); len(c) < len(value) {
			payload = c
			compressed = true
		}
	}

	size := int64(len(payload))
	if size > d.capacity {
		return ErrItemTooLarge
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.index[key]; ok {
		d.dropLocked(key, existing)
	}
	for d.size+size > d.capacity && len(d.index) > 0 {
		d.evictOldestLocked()
	}

	path := filepath.Join(d.dir, key+".zst")
	if err := writeFileAtomic(path, payload); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	now := time.Now()
	d.index[key] = &diskEntry{
		Path:       path,
		Size:       size,
		Compressed: compressed,
		Stored:     now,
		LastAccess: now,
	}
	d.size += size
	return nil
}

func (d *diskStore) delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.index[key]; ok {
		d.dropLocked(key, entry)
	}
}

func (d *diskStore) clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, entry := range d.index {
		d.dropLocked(key, entry)
	}
	return d.saveIndexLocked()
}

func (d *diskStore) removeOlderThan(cutoff time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for key, entry := range d.index {
		if entry.Stored.Before(cutoff) {
			d.dropLocked(key, entry)
			removed++
		}
	}
	return removed
}

func (d *diskStore) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.saveIndexLocked()
	d.encoder.Close()
	d.decoder.Close()
	return err
}

// dropLocked must be called with the lock held.
func (d *diskStore) dropLocked(key string, entry *diskEntry) {
	os.Remove(entry.Path)
	delete(d.index, key)
	d.size -= entry.Size
}

// evictOldestLocked must be called with the lock held.
func (d *diskStore) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range d.index {
		if oldestKey == "" || entry.LastAccess.Before(oldest) {
			oldestKey = key
			oldest = entry.LastAccess
		}
	}
	if oldestKey != "" {
		d.dropLocked(oldestKey, d.index[oldestKey])
	}
}

func (d *diskStore) loadIndex() error {
	file, err := os.Open(filepath.Join(d.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(&d.index)
}

// saveIndexLocked must be called with the lock held.
func (d *diskStore) saveIndexLocked() error {
	path := filepath.Join(d.dir, indexFile)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(file).Encode(d.index)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
