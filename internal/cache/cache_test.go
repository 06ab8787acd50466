package cache

import (
	"bytes"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := New(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("hello world", "af_sky", 1.0)
	b := Key("hello world", "af_sky", 1.0)
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
}

func TestKeyVariesWithInputs(t *testing.T) {
	base := Key("hello world", "af_sky", 1.0)

	tests := []struct {
		name  string
		text  string
		voice string
		speed float64
	}{
		{"different text", "goodbye world", "af_sky", 1.0},
		{"different voice", "hello world", "am_adam", 1.0},
		{"different speed", "hello world", "af_sky", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.text, tt.voice, tt.speed); got == base {
				t.Errorf("Key(%q, %q, %v) collided with base key", tt.text, tt.voice, tt.speed)
			}
		})
	}
}

func TestPutGet(t *testing.T) {
	c := newTestCache(t)

	key := Key("chapter one text", "af_sky", 1.0)
	audio := bytes.Repeat([]byte{0x01, 0x02}, 4096)

	if err := c.Put(key, audio); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Get() returned %d bytes, want %d", len(got), len(audio))
	}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Get(Key("never stored", "af_sky", 1.0)); ok {
		t.Error("Get() hit for a key that was never stored")
	}

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	key := Key("some chapter", "bf_emma", 1.25)
	audio := bytes.Repeat([]byte{0xAB}, 10000)

	c, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Put(key, audio); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New() after reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get(key)
	if !ok {
		t.Fatal("Get() miss after reopen")
	}
	if !bytes.Equal(got, audio) {
		t.Error("Get() after reopen returned corrupted data")
	}
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)

	key := Key("text", "af_sky", 1.0)
	if err := c.Put(key, []byte("audio")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	c.Delete(key)

	if _, ok := c.Get(key); ok {
		t.Error("Get() hit after Delete()")
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t)

	keys := []string{
		Key("one", "af_sky", 1.0),
		Key("two", "af_sky", 1.0),
	}
	for _, key := range keys {
		if err := c.Put(key, []byte("audio")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	for _, key := range keys {
		if _, ok := c.Get(key); ok {
			t.Errorf("Get(%q) hit after Clear()", key)
		}
	}
	if size := c.Stats().DiskSize; size != 0 {
		t.Errorf("DiskSize = %d after Clear(), want 0", size)
	}
}

func TestItemTooLarge(t *testing.T) {
	c, err := New(Options{Dir: t.TempDir(), DiskCapacity: 64, MemoryCapacity: 64})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	err = c.Put(Key("big", "af_sky", 1.0), make([]byte, 128))
	if err != ErrItemTooLarge {
		t.Errorf("Put() error = %v, want ErrItemTooLarge", err)
	}
}

func TestMemoryLRUEviction(t *testing.T) {
	m := newMemoryCache(100)

	m.put("a", make([]byte, 40))
	m.put("b", make([]byte, 40))

	// Touch "a" so "b" becomes the eviction candidate.
	m.get("a")
	m.put("c", make([]byte, 40))

	if _, ok := m.get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := m.get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := m.get("c"); !ok {
		t.Error("newly inserted entry missing")
	}
}

func TestDiskTTLExpiry(t *testing.T) {
	dir := t.TempDir()

	c, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	key := Key("old chapter", "af_sky", 1.0)
	if err := c.Put(key, bytes.Repeat([]byte{1}, 2048)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Backdate the entry past the TTL before persisting the index.
	c.disk.mu.Lock()
	c.disk.index[key].Stored = time.Now().Add(-30 * 24 * time.Hour)
	c.disk.mu.Unlock()
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New() after reopen error = %v", err)
	}
	defer reopened.Close()

	if _, ok := reopened.Get(key); ok {
		t.Error("expired entry survived reopen")
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c, err := New(Options{Dir: b.TempDir()})
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	key := Key("benchmark text", "af_sky", 1.0)
	if err := c.Put(key, make([]byte, 1<<20)); err != nil {
		b.Fatalf("Put() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := c.Get(key); !ok {
			b.Fatal("unexpected miss")
		}
	}
}
