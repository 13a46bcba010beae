package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(max int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	c := New(max)
	c.now = clock.Now
	return c, clock
}

func TestGetPutRoundtrip(t *testing.T) {
	c, _ := newTestCache(8)

	if _, ok := c.Get("notes.list"); ok {
		t.Fatal("Get() hit on empty cache")
	}

	c.Put("notes.list", []byte(`["a"]`), time.Minute)
	got, ok := c.Get("notes.list")
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if string(got) != `["a"]` {
		t.Errorf("payload = %q", got)
	}
}

func TestLazyExpiry(t *testing.T) {
	c, clock := newTestCache(8)
	c.Put("search?q=go", []byte("results"), 60*time.Second)

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("search?q=go"); !ok {
		t.Error("entry expired before its TTL elapsed")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("search?q=go"); ok {
		t.Error("entry served after its TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestZeroTTLNeverCaches(t *testing.T) {
	c, _ := newTestCache(8)
	c.Put("surface", []byte("x"), 0)
	if _, ok := c.Get("surface"); ok {
		t.Error("zero-TTL entry was served")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c, _ := newTestCache(3)
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Minute)
	}

	// Touch k0 so k1 becomes the least recently used.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("k0 missing")
	}

	c.Put("k3", []byte{3}, time.Minute)

	if _, ok := c.Get("k1"); ok {
		t.Error("least recently used entry survived eviction")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("entry %s was evicted", key)
		}
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(8)
	c.Put("notes.list", []byte("a"), time.Minute)
	c.Put("notes.list?limit=20&offset=20", []byte("b"), time.Minute)
	c.Put("documents.list", []byte("c"), time.Minute)

	if n := c.Invalidate("notes."); n != 2 {
		t.Errorf("Invalidate() removed %d entries, want 2", n)
	}
	if _, ok := c.Get("notes.list"); ok {
		t.Error("invalidated entry still served")
	}
	if _, ok := c.Get("documents.list"); !ok {
		t.Error("unrelated entry was invalidated")
	}
}

func TestGetOrFetchSingleFlight(t *testing.T) {
	c, _ := newTestCache(8)

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func() ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("payload"), nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([][]byte, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFetch("profile", time.Minute, fetch)
		}(i)
	}

	// Give every goroutine a chance to join the flight, then release.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("fetch called %d times for %d concurrent callers, want 1", got, n)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Errorf("caller %d error = %v", i, errs[i])
		}
		if string(results[i]) != "payload" {
			t.Errorf("caller %d payload = %q", i, results[i])
		}
	}
}

func TestGetOrFetchErrorNotCached(t *testing.T) {
	c, _ := newTestCache(8)

	boom := errors.New("upstream down")
	var calls int
	fetch := func() ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []byte("ok"), nil
	}

	if _, err := c.GetOrFetch("search?q=x", time.Minute, fetch); !errors.Is(err, boom) {
		t.Fatalf("first call error = %v, want %v", err, boom)
	}
	got, err := c.GetOrFetch("search?q=x", time.Minute, fetch)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if string(got) != "ok" {
		t.Errorf("payload = %q", got)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (errors must not be cached)", calls)
	}
}

func TestGetOrFetchServesCached(t *testing.T) {
	c, _ := newTestCache(8)
	c.Put("notes.list", []byte("cached"), time.Minute)

	got, err := c.GetOrFetch("notes.list", time.Minute, func() ([]byte, error) {
		t.Fatal("fetch called despite fresh cache entry")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "cached" {
		t.Errorf("payload = %q", got)
	}
}
