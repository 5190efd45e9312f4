package runner

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobrake/jobrake/internal/discovery"
)

func TestPoolRunsAllCompanies(t *testing.T) {
	t.Parallel()

	companies := []discovery.Company{
		{Name: "Acme", Domain: "acme.example"},
		{Name: "Globex", Domain: "globex.example"},
		{Name: "Initech", Domain: "initech.example"},
		{Name: "Umbrella", Domain: "umbrella.example"},
	}
	queue := NewQueue(len(companies))
	for _, c := range companies {
		require.NoError(t, queue.Enqueue(context.Background(), c))
	}
	queue.Close()

	var (
		mu   sync.Mutex
		seen []string
	)
	pool := New(queue, 3, func(_ context.Context, c discovery.Company) {
		mu.Lock()
		seen = append(seen, c.Name)
		mu.Unlock()
	}, nil)
	pool.Run(context.Background())

	assert.ElementsMatch(t, []string{"Acme", "Globex", "Initech", "Umbrella"}, seen)
}

func TestDequeueAfterClose(t *testing.T) {
	t.Parallel()

	queue := NewQueue(1)
	queue.Close()
	queue.Close() // second close is a no-op

	_, err := queue.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEnqueueCanceledContext(t *testing.T) {
	t.Parallel()

	queue := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := queue.Enqueue(ctx, discovery.Company{Name: "Acme"})
	assert.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	queue := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := New(queue, 2, func(context.Context, discovery.Company) {
		t.Error("scrape should not run after cancellation")
	}, nil)
	pool.Run(ctx)
}
