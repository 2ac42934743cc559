package tile

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingCommand struct {
	counter *atomic.Int64
}

func (c countingCommand) Execute() { c.counter.Add(1) }

func TestDrainWaitsForAllEnqueuedCommands(t *testing.T) {
	s := NewScheduler(2, 2, 4, nil)
	s.Start()
	defer s.Shutdown()

	var counter atomic.Int64
	const n = 50
	for i := 0; i < n; i++ {
		s.Enqueue(i%s.TileCount(), countingCommand{counter: &counter})
	}
	s.Drain()

	if got := counter.Load(); got != n {
		t.Errorf("after Drain, expected %d executed commands, got %d", n, got)
	}
}

type sequenceRecorder struct {
	mu   sync.Mutex
	seen []int
}

type sequenceCommand struct {
	i   int
	rec *sequenceRecorder
}

func (c sequenceCommand) Execute() {
	c.rec.mu.Lock()
	c.rec.seen = append(c.rec.seen, c.i)
	c.rec.mu.Unlock()
}

func TestEachTileProcessesInEnqueueOrder(t *testing.T) {
	s := NewScheduler(1, 1, 8, nil)
	s.Start()
	defer s.Shutdown()

	rec := &sequenceRecorder{}
	for i := 0; i < 10; i++ {
		s.Enqueue(0, sequenceCommand{i: i, rec: rec})
	}
	s.Drain()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, v := range rec.seen {
		if v != i {
			t.Fatalf("tile executed out of enqueue order: seen=%v", rec.seen)
		}
	}
}

func TestShutdownJoinsAllWorkers(t *testing.T) {
	s := NewScheduler(3, 3, 4, nil)
	s.Start()
	done := make(chan error, 1)
	go func() { done <- s.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Shutdown returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return: workers did not join")
	}
}
