package asyncx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapKeepsOrderAndBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	items := []int{5, 1, 4, 2, 3}

	out := Map(context.Background(), items, 2, func(ctx context.Context, n int) (int, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(time.Duration(n) * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if n == 4 {
			return 0, errors.New("four")
		}
		return n * 10, nil
	})

	if len(out) != len(items) {
		t.Fatalf("got %d outcomes", len(out))
	}
	for i, n := range items {
		if n == 4 {
			if out[i].Err == nil {
				t.Fatalf("expected error at %d", i)
			}
			continue
		}
		if out[i].Err != nil || out[i].Value != n*10 {
			t.Fatalf("outcome %d = %+v", i, out[i])
		}
	}
	if peak > 2 {
		t.Fatalf("peak concurrency %d exceeds limit", peak)
	}
}

func TestMapCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Map(ctx, []string{"a", "b"}, 1, func(ctx context.Context, s string) (string, error) {
		return s, nil
	})
	for i, o := range out {
		if o.Err == nil && o.Value == "" {
			t.Fatalf("outcome %d neither ran nor failed", i)
		}
	}
}

func TestAsyncAll(t *testing.T) {
	got, err := AsyncAll(context.Background(), []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		return n * n, nil
	})
	if err != nil || len(got) != 3 || got[0] != 1 || got[2] != 9 {
		t.Fatalf("AsyncAll() = %v, %v", got, err)
	}

	_, err = AsyncAll(context.Background(), []int{1, 2}, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("boom")
		}
		return n, nil
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}
