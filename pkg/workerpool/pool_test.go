package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/giftwheels/pkg/workerpool"
)

// buyFrom takes qty units from stock if enough are left.
func buyFrom(stock *atomic.Int64, qty int64) bool {
	for {
		cur := stock.Load()
		if cur < qty {
			return false
		}
		if stock.CompareAndSwap(cur, cur-qty) {
			return true
		}
	}
}

func TestEach_BuyersDrainLimitedStock(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	var stock atomic.Int64
	stock.Store(5)
	var placed, rejected atomic.Int64

	err := pool.Each(20, func(int) {
		if buyFrom(&stock, 1) {
			placed.Add(1)
		} else {
			rejected.Add(1)
		}
	})
	require.NoError(t, err)

	assert.EqualValues(t, 5, placed.Load())
	assert.EqualValues(t, 15, rejected.Load())
	assert.Zero(t, stock.Load())
}

func TestEach_RunsEveryBuyerOnceWithinWorkerLimit(t *testing.T) {
	const workers, buyers = 3, 30
	pool := workerpool.New(workers)
	defer pool.Shutdown()

	var (
		inFlight, peak atomic.Int64
		mu             sync.Mutex
		seen           = map[int]int{}
	)
	err := pool.Each(buyers, func(i int) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)

		mu.Lock()
		seen[i]++
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Len(t, seen, buyers)
	for i, n := range seen {
		assert.Equal(t, 1, n, "buyer %d", i)
	}
	assert.LessOrEqual(t, peak.Load(), int64(workers))
}

func TestEach_PanickingBuyerDoesNotStopTheRest(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Shutdown()

	var done atomic.Int64
	err := pool.Each(6, func(i int) {
		if i == 2 {
			panic("checkout blew up")
		}
		done.Add(1)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, done.Load())

	require.NoError(t, pool.Each(1, func(int) { done.Add(1) }), "workers survive a panic")
	assert.EqualValues(t, 6, done.Load())
}

func TestEach_AfterShutdown(t *testing.T) {
	pool := workerpool.New(1)
	pool.Shutdown()

	ran := false
	err := pool.Each(3, func(int) { ran = true })
	assert.ErrorIs(t, err, workerpool.ErrPoolClosed)
	assert.False(t, ran)
}

func TestSubmit_FullQueueFailsFast(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() {
		close(started)
		<-release
	}))
	<-started

	// One worker busy, two queue slots.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(release)
}

func TestShutdown_FinishesQueuedBuyers(t *testing.T) {
	pool := workerpool.New(1)

	var done atomic.Int64
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		}))
	}
	pool.Shutdown()
	pool.Shutdown()

	assert.EqualValues(t, 2, done.Load())
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}
