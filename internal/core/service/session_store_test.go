package service

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets a test move the store's notion of "now" forward.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewSessionStore(ttl)
	store.now = clock.Now
	return store, clock
}

func TestSessionStore_CreateAndValidate(t *testing.T) {
	store, _ := newTestStore(24 * time.Hour)

	token, err := store.Create("cust_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(token))
	}

	customerID, ok := store.Validate(token)
	if !ok {
		t.Fatal("freshly created session must validate")
	}
	if customerID != "cust_1" {
		t.Errorf("expected customer cust_1, got %q", customerID)
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store, _ := newTestStore(24 * time.Hour)

	if _, ok := store.Validate("deadbeef"); ok {
		t.Error("unknown token must not validate")
	}
}

func TestSessionStore_ExpiresAfterTTL(t *testing.T) {
	store, clock := newTestStore(24 * time.Hour)
	token, _ := store.Create("cust_1")

	clock.Advance(24*time.Hour + time.Second)

	if _, ok := store.Validate(token); ok {
		t.Error("session past the 24h window must be rejected")
	}
	// Expired entry is deleted on the failed validation.
	if store.Len() != 0 {
		t.Errorf("expired session must be removed, store has %d entries", store.Len())
	}
}

func TestSessionStore_SlidingExpiry(t *testing.T) {
	store, clock := newTestStore(24 * time.Hour)
	token, _ := store.Create("cust_1")

	// Touch the session just before expiry; the window restarts.
	clock.Advance(23 * time.Hour)
	if _, ok := store.Validate(token); !ok {
		t.Fatal("session at T+23h must still be valid")
	}

	// 23h later again: 46h after creation but only 23h after the last touch.
	clock.Advance(23 * time.Hour)
	if _, ok := store.Validate(token); !ok {
		t.Error("refreshed session must survive past the original deadline")
	}
}

func TestSessionStore_FailedValidationDoesNotRefresh(t *testing.T) {
	store, clock := newTestStore(24 * time.Hour)
	token, _ := store.Create("cust_1")

	clock.Advance(25 * time.Hour)
	store.Validate(token) // expired, deleted

	clock.Advance(-2 * time.Hour) // back inside the original window
	if _, ok := store.Validate(token); ok {
		t.Error("a session deleted on expiry must stay dead")
	}
}

func TestSessionStore_Remove(t *testing.T) {
	store, _ := newTestStore(24 * time.Hour)
	token, _ := store.Create("cust_1")

	store.Remove(token)
	if _, ok := store.Validate(token); ok {
		t.Error("removed session must not validate")
	}

	// Removing twice is a no-op.
	store.Remove(token)
}

func TestSessionStore_RemoveAllForCustomer(t *testing.T) {
	store, _ := newTestStore(24 * time.Hour)
	t1, _ := store.Create("cust_1")
	t2, _ := store.Create("cust_1")
	other, _ := store.Create("cust_2")

	store.RemoveAllForCustomer("cust_1")

	if _, ok := store.Validate(t1); ok {
		t.Error("first session of cust_1 must be gone")
	}
	if _, ok := store.Validate(t2); ok {
		t.Error("second session of cust_1 must be gone")
	}
	if _, ok := store.Validate(other); !ok {
		t.Error("cust_2 session must be untouched")
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	store, clock := newTestStore(24 * time.Hour)
	stale, _ := store.Create("cust_1")

	clock.Advance(20 * time.Hour)
	fresh, _ := store.Create("cust_2")

	clock.Advance(5 * time.Hour) // stale at T+25h, fresh at T+5h

	if removed := store.Sweep(); removed != 1 {
		t.Errorf("expected 1 swept session, got %d", removed)
	}
	if _, ok := store.Validate(stale); ok {
		t.Error("stale session must be swept")
	}
	if _, ok := store.Validate(fresh); !ok {
		t.Error("fresh session must survive the sweep")
	}
}

func TestSessionStore_ConcurrentValidate(t *testing.T) {
	store, _ := newTestStore(24 * time.Hour)

	tokens := make([]string, 8)
	for i := range tokens {
		tok, err := store.Create(fmt.Sprintf("cust_%d", i))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := tokens[i%len(tokens)]
			if _, ok := store.Validate(tok); !ok {
				t.Errorf("valid session rejected under concurrency")
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != len(tokens) {
		t.Errorf("expected %d sessions, got %d", len(tokens), store.Len())
	}
}
