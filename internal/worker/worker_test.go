package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/water-insights/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 2, 10, processor)
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		pool.Submit(i)
	}

	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 4, 100, processor)
	pool.Start(context.Background())

	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		go func(n int) {
			pool.Submit(n)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 100; i++ {
		<-done
	}

	pool.Stop()

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
}

func TestPool_DrainsOnStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		time.Sleep(time.Millisecond)
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 2, 50, processor)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(i)
	}
	cancel()

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	if processed.Load() != 20 {
		t.Errorf("expected buffered jobs drained, got %d", processed.Load())
	}
}

func TestPool_ErrorsDoNotStopWorkers(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		if job%2 == 0 {
			return errors.New("even jobs fail")
		}
		return nil
	}

	pool := NewPool("test", 1, 10, processor)
	pool.Start(context.Background())
	for i := 0; i < 6; i++ {
		pool.Submit(i)
	}
	pool.Stop()

	if processed.Load() != 6 {
		t.Errorf("expected 6 jobs processed, got %d", processed.Load())
	}
}

func TestPool_PointerJobs(t *testing.T) {
	var mu sync.Mutex
	stored := make(map[string]int)
	processor := func(ctx context.Context, r *models.PredictionRecord) error {
		mu.Lock()
		defer mu.Unlock()
		stored[r.ID] = r.TargetYear
		return nil
	}

	pool := NewPool("history", 3, 4, processor)
	pool.Start(context.Background())
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		pool.Submit(&models.PredictionRecord{ID: id, TargetYear: 2030 + i})
	}
	pool.Stop()

	if len(stored) != 5 || stored["e"] != 2034 {
		t.Errorf("unexpected stored records: %v", stored)
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool("test", 1, 1, func(ctx context.Context, job int) error { return nil })
	pool.Start(context.Background())

	if err := pool.Submit(1); err != nil {
		t.Fatalf("submit before stop: %v", err)
	}
	pool.Stop()
	pool.Stop()

	if err := pool.Submit(2); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_StopRacesSubmit(t *testing.T) {
	var processed atomic.Int64
	pool := NewPool("test", 2, 1, func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	})
	pool.Start(context.Background())

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if pool.Submit(n) == nil {
				accepted.Add(1)
			}
		}(i)
	}
	pool.Stop()
	wg.Wait()

	if processed.Load() != accepted.Load() {
		t.Errorf("accepted %d jobs but processed %d", accepted.Load(), processed.Load())
	}
}
