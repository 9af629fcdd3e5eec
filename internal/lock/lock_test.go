package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSlotKey(t *testing.T) {
	if got := SlotKey(12, "2026-10-20"); got != "slot:12:2026-10-20" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestLocal_Exclusive(t *testing.T) {
	l := NewLocal()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "slot:1:2026-10-20")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
	if l.held() != 0 {
		t.Fatalf("expected keys to be released, %d left", l.held())
	}
}

func TestLocal_IndependentKeys(t *testing.T) {
	l := NewLocal()
	a, err := l.Lock(context.Background(), "slot:1:2026-10-20")
	if err != nil {
		t.Fatalf("lock a: %v", err)
	}
	defer a()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	b, err := l.Lock(ctx, "slot:2:2026-10-20")
	if err != nil {
		t.Fatalf("other staff must not wait: %v", err)
	}
	b()
}

func TestLocal_ContextTimeout(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "k"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}

	unlock()
	unlock()
	if l.held() != 0 {
		t.Fatalf("expected no keys left, got %d", l.held())
	}
}
