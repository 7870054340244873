package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func init() { retryDelay = time.Millisecond }

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "ops:abc"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "ops:abc", []byte(`[{"opNo":"1"}]`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "ops:abc")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != `[{"opNo":"1"}]` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "ops:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "ops:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "ops:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared cache should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
	if HashJSON([]int{1, 2}) != HashJSON([]int{1, 2}) {
		t.Error("HashJSON should be deterministic")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.OperationsKey("abc"); got != "ops:abc" {
		t.Errorf("OperationsKey = %q", got)
	}

	base := LayoutKeyOpts{TargetOutput: 1000, WorkingHours: 8, TemplatesHash: "t1"}
	lk := k.LayoutKey("h", base)
	if !strings.HasPrefix(lk, "layout:") {
		t.Errorf("LayoutKey prefix: %q", lk)
	}
	if lk != k.LayoutKey("h", base) {
		t.Error("LayoutKey should be deterministic")
	}
	variants := []LayoutKeyOpts{
		{TargetOutput: 500, WorkingHours: 8, TemplatesHash: "t1"},
		{TargetOutput: 1000, WorkingHours: 9, TemplatesHash: "t1"},
		{TargetOutput: 1000, WorkingHours: 8, TemplatesHash: "t2"},
		{TargetOutput: 1000, WorkingHours: 8, TemplatesHash: "t1", UnitTemplates: true},
	}
	for _, v := range variants {
		if k.LayoutKey("h", v) == lk {
			t.Errorf("LayoutKey(%+v) should differ from base", v)
		}
	}

	ak1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"})
	ak3 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Section: "Cuff"})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "factory:7:")
	if got := scoped.OperationsKey("abc"); got != "factory:7:ops:abc" {
		t.Errorf("OperationsKey = %q", got)
	}
	if got := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "factory:7:layout:") {
		t.Errorf("LayoutKey = %q", got)
	}
	if got := scoped.ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "factory:7:artifact:") {
		t.Errorf("ArtifactKey = %q", got)
	}

	if got := NewScopedKeyer(nil, "p:").OperationsKey("x"); got != "p:ops:x" {
		t.Errorf("nil inner keyer: %q", got)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("Retryable should unwrap")
	}
	if IsRetryable(errors.New("cache miss")) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 2, true, 3, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errTransient)
					}
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(errTransient) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("LINEPLANNER_TEST_REDIS")
	if url == "" {
		t.Skip("LINEPLANNER_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, WithKeyPrefix("lineplanner-test:"))
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "k-" + time.Now().Format("150405.000000")
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q %v %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

type ttlRecorder struct {
	NullCache
	ttls []time.Duration
}

func (r *ttlRecorder) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	r.ttls = append(r.ttls, ttl)
	return nil
}

func TestWithMaxTTL(t *testing.T) {
	ctx := context.Background()
	rec := &ttlRecorder{}

	if got := WithMaxTTL(rec, 0); got != Cache(rec) {
		t.Error("WithMaxTTL(0) should return the cache unchanged")
	}

	c := WithMaxTTL(rec, time.Hour)
	for _, ttl := range []time.Duration{time.Minute, 48 * time.Hour, 0} {
		if err := c.Set(ctx, "k", nil, ttl); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	want := []time.Duration{time.Minute, time.Hour, time.Hour}
	for i, ttl := range rec.ttls {
		if ttl != want[i] {
			t.Errorf("ttl[%d] = %v, want %v", i, ttl, want[i])
		}
	}
}
