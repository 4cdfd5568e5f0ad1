package share

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type brokenStore struct {
	getErr error
	putErr error
	raw    []byte
}

func (s *brokenStore) Get(string) ([]byte, error) { return s.raw, s.getErr }

func (s *brokenStore) Put(string, []byte) error { return s.putErr }

func TestRateLimiter_RejectsEleventhCall(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1_000_000)}
	l := NewRateLimiter(NewMemoryStore(), WithNow(clock.Now))

	for i := 0; i < 10; i++ {
		if !l.Allow() {
			t.Fatalf("call %d rejected", i+1)
		}
		clock.Advance(time.Second)
	}
	if l.Allow() {
		t.Fatal("11th call within window should be rejected")
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1_000_000)}
	store := NewMemoryStore()
	l := NewRateLimiter(store, WithNow(clock.Now), WithLimit(2, time.Minute))

	if !l.Allow() || !l.Allow() {
		t.Fatal("first two calls should pass")
	}
	if l.Allow() {
		t.Fatal("third call should be rejected")
	}

	clock.Advance(time.Minute)
	if !l.Allow() {
		t.Fatal("call after window should pass")
	}
	raw, _ := store.Get(RateLimitKey)
	if string(raw) != "[1060000]" {
		t.Errorf("history = %s, want pruned to the latest attempt", raw)
	}
}

func TestRateLimiter_RejectionNotRecorded(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(0)}
	l := NewRateLimiter(NewMemoryStore(), WithNow(clock.Now), WithLimit(1, 10*time.Second))

	if !l.Allow() {
		t.Fatal("first call should pass")
	}
	clock.Advance(5 * time.Second)
	if l.Allow() {
		t.Fatal("second call should be rejected")
	}
	// 被拒绝的尝试不计入，窗口从第一次调用算起
	clock.Advance(5 * time.Second)
	if !l.Allow() {
		t.Fatal("call after first attempt expired should pass")
	}
}

func TestRateLimiter_SpacedCallsPass(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(0)}
	l := NewRateLimiter(NewMemoryStore(), WithNow(clock.Now))

	for i := 0; i < 30; i++ {
		if !l.Allow() {
			t.Fatalf("call %d rejected", i+1)
		}
		clock.Advance(7 * time.Second)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{name: "nil store", store: nil},
		{name: "get error", store: &brokenStore{getErr: errors.New("disk")}},
		{name: "put error", store: &brokenStore{putErr: errors.New("disk")}},
		{name: "corrupt history", store: &brokenStore{raw: []byte("not json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewRateLimiter(tt.store, WithLimit(1, time.Hour))
			for i := 0; i < 3; i++ {
				if !l.Allow() {
					t.Fatalf("call %d rejected", i+1)
				}
			}
		})
	}

	var nilLimiter *RateLimiter
	if !nilLimiter.Allow() {
		t.Error("nil limiter should allow")
	}
}
