package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInFlightGuard_SecondAcquireFails(t *testing.T) {
	guard := newInFlightGuard()

	assert.True(t, guard.acquire(1))
	assert.False(t, guard.acquire(1))
	assert.True(t, guard.inFlight(1))

	guard.release(1)
	assert.False(t, guard.inFlight(1))
	assert.True(t, guard.acquire(1))
}

func TestInFlightGuard_ItemsAreIndependent(t *testing.T) {
	guard := newInFlightGuard()

	assert.True(t, guard.acquire(1))
	assert.True(t, guard.acquire(2))
	assert.True(t, guard.inFlight(1))
	assert.True(t, guard.inFlight(2))

	guard.release(1)
	assert.False(t, guard.inFlight(1))
	assert.True(t, guard.inFlight(2))
}

func TestInFlightGuard_ReleaseUnknownItemIsHarmless(t *testing.T) {
	guard := newInFlightGuard()

	guard.release(99)
	assert.True(t, guard.acquire(99))
}

func TestInFlightGuard_ConcurrentAcquireAdmitsOne(t *testing.T) {
	guard := newInFlightGuard()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- guard.acquire(7)
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for ok := range results {
		if ok {
			admitted++
		}
	}
	assert.Equal(t, 1, admitted)
}
