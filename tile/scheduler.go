// Package tile implements the fixed Tx*Ty grid of worker threads that
// consume per-tile rasterization commands (§4.4, §5). The scheduler owns
// one bounded ring buffer per tile, each paired 1:1 with a worker
// goroutine; the main thread is the sole producer.
package tile

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"swraster/rlog"
)

// DefaultQueueCapacity is the per-tile ring buffer capacity named in §4.4.
const DefaultQueueCapacity = 32

// DefaultGridSize is the default Tx*Ty tile grid named throughout §4.3.
const DefaultGridSize = 6

// Scheduler owns the tile grid's worker pool. Unlike the source renderer's
// process-wide singleton (spec.md §9 design notes), a Scheduler is a plain
// value a context.Context constructs and owns, so multiple contexts can
// coexist.
type Scheduler struct {
	tilesX, tilesY int
	rings          []*ring

	wg      sync.WaitGroup // in-flight command count, for Drain
	started bool
	group   *errgroup.Group
	ctx     context.Context
	cancel  func()

	log *rlog.Logger
}

// NewScheduler constructs a tilesX*tilesY scheduler with the given per-tile
// queue capacity. It does not start workers; call Start.
func NewScheduler(tilesX, tilesY, queueCapacity int, log *rlog.Logger) *Scheduler {
	if tilesX <= 0 {
		tilesX = DefaultGridSize
	}
	if tilesY <= 0 {
		tilesY = DefaultGridSize
	}
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}
	s := &Scheduler{tilesX: tilesX, tilesY: tilesY, log: log}
	s.rings = make([]*ring, tilesX*tilesY)
	for i := range s.rings {
		s.rings[i] = newRing(queueCapacity)
	}
	return s
}

// TileIndex maps a tile grid coordinate to its flat ring index.
func (s *Scheduler) TileIndex(tx, ty int) int { return ty*s.tilesX + tx }

// TileCount returns the total number of tiles, Tx*Ty.
func (s *Scheduler) TileCount() int { return s.tilesX * s.tilesY }

// Dims returns the tile grid dimensions.
func (s *Scheduler) Dims() (tx, ty int) { return s.tilesX, s.tilesY }

// Start spawns one worker goroutine per tile.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(s.ctx)
	s.group = group
	for i := range s.rings {
		idx := i
		group.Go(func() error {
			return s.worker(gctx, idx)
		})
	}
	s.log.Debugf("tile scheduler started: %dx%d tiles", s.tilesX, s.tilesY)
}

// worker runs a single tile's consume loop: dequeue, execute, repeat, exit
// on a Terminate command or on ring closure.
func (s *Scheduler) worker(ctx context.Context, idx int) error {
	r := s.rings[idx]
	for {
		cmd, ok := r.pop()
		if !ok {
			return nil
		}
		if _, isTerminate := cmd.(terminateCommand); isTerminate {
			s.wg.Done()
			return nil
		}
		cmd.Execute()
		s.wg.Done()
	}
}

// terminateCommand is the shutdown sentinel enqueued to every tile ring.
type terminateCommand struct{}

func (terminateCommand) Execute() {}

// Enqueue submits a command to the named tile's ring, blocking the caller
// while that ring is full (§4.4 "enqueue(tile, cmd): blocks producer while
// the ring is full").
func (s *Scheduler) Enqueue(tileIndex int, cmd Command) {
	s.wg.Add(1)
	s.rings[tileIndex].push(cmd)
}

// Drain blocks the caller until every command enqueued so far — across all
// tiles — has finished executing. Called from context.Context.EndFrame
// before MSAA resolve, since resolve reads render targets workers are
// still writing to otherwise.
func (s *Scheduler) Drain() {
	s.wg.Wait()
}

// Shutdown enqueues a Terminate sentinel to every tile and joins all
// workers, propagating the first non-nil error via errgroup — the corpus's
// preferred fan-in primitive (golang.org/x/sync/errgroup, also used by
// mmp-vice) rather than a hand-rolled sync.WaitGroup loop.
func (s *Scheduler) Shutdown() error {
	if !s.started {
		return nil
	}
	s.Drain()
	for i := range s.rings {
		s.Enqueue(i, terminateCommand{})
	}
	s.wg.Wait()
	for _, r := range s.rings {
		r.closeRing()
	}
	err := s.group.Wait()
	s.cancel()
	s.started = false
	if err != nil {
		return fmt.Errorf("tile scheduler shutdown: %w", err)
	}
	s.log.Debugf("tile scheduler shut down")
	return nil
}
