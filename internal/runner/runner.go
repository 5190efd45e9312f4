// Package runner fans company scrapes out over a bounded queue and a fixed
// worker pool.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/discovery"
)

// ErrClosed is returned by Dequeue once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Queue is a bounded in-memory company queue with context-aware operations.
type Queue struct {
	ch      chan discovery.Company
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan discovery.Company, capacity)}
}

// Enqueue pushes a company into the queue or returns if the context ends.
func (q *Queue) Enqueue(ctx context.Context, company discovery.Company) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- company:
		return nil
	}
}

// Dequeue pops the next company, respecting context cancellation. Once the
// queue is closed and empty it returns ErrClosed.
func (q *Queue) Dequeue(ctx context.Context) (discovery.Company, error) {
	select {
	case <-ctx.Done():
		return discovery.Company{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case company, ok := <-q.ch:
		if !ok {
			return discovery.Company{}, ErrClosed
		}
		return company, nil
	}
}

// Close closes the queue. Workers drain remaining items and then stop.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}

// ScrapeFunc handles one company.
type ScrapeFunc func(ctx context.Context, company discovery.Company)

// Pool consumes the queue with a fixed number of workers.
type Pool struct {
	queue   *Queue
	workers int
	scrape  ScrapeFunc
	log     *zap.Logger
}

// New creates a Pool. Worker counts below one are raised to one.
func New(queue *Queue, workers int, scrape ScrapeFunc, log *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{queue: queue, workers: workers, scrape: scrape, log: log}
}

// Run starts the workers and blocks until the queue is drained or the
// context ends.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			log := p.log.With(zap.Int("worker", index))
			for {
				company, err := p.queue.Dequeue(ctx)
				if errors.Is(err, ErrClosed) {
					return
				}
				if err != nil {
					log.Debug("worker stopping", zap.Error(err))
					return
				}
				p.scrape(ctx, company)
			}
		}(i)
	}
	wg.Wait()
}
