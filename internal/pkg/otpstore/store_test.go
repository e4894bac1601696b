package otpstore

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndConsume_HappyPath_ConsumesOnce(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("a@x.com", "123456")

	require.NoError(t, s.CheckAndConsume("a@x.com", "123456"))

	err := s.CheckAndConsume("a@x.com", "123456")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestCheckAndConsume_NoEntry(t *testing.T) {
	s := New(10 * time.Minute)
	assert.ErrorIs(t, s.CheckAndConsume("missing@x.com", "123456"), ErrCodeNotFound)
}

func TestCheckAndConsume_Mismatch_EntryRemainsUsable(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("a@x.com", "123456")

	assert.ErrorIs(t, s.CheckAndConsume("a@x.com", "000000"), ErrCodeMismatch)

	// A correct retry within the TTL still succeeds.
	assert.NoError(t, s.CheckAndConsume("a@x.com", "123456"))
}

func TestCheckAndConsume_Expired_IsTerminal(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("a@x.com", "123456")

	// Advance the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	assert.ErrorIs(t, s.CheckAndConsume("a@x.com", "123456"), ErrCodeExpired)

	// The entry was removed; even winding the clock back cannot resurrect it.
	s.now = time.Now
	assert.ErrorIs(t, s.CheckAndConsume("a@x.com", "123456"), ErrCodeNotFound)
}

func TestPut_ReplacesPendingEntry(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("a@x.com", "111111")
	s.Put("a@x.com", "222222")

	assert.ErrorIs(t, s.CheckAndConsume("a@x.com", "111111"), ErrCodeMismatch)
	assert.NoError(t, s.CheckAndConsume("a@x.com", "222222"))
}

func TestCheckAndConsume_Concurrent_SingleWinner(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("a@x.com", "123456")

	const n = 64
	var wg sync.WaitGroup
	results := make(chan error, n)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- s.CheckAndConsume("a@x.com", "123456")
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	successes, notFound := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == ErrCodeNotFound:
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, notFound)
}

func TestSweep_EvictsOnlyExpired(t *testing.T) {
	s := New(10 * time.Minute)
	s.Put("old@x.com", "111111")

	base := time.Now()
	s.now = func() time.Time { return base.Add(11 * time.Minute) }
	s.Put("fresh@x.com", "222222")

	s.sweep()

	s.mu.Lock()
	_, oldThere := s.entries["old@x.com"]
	_, freshThere := s.entries["fresh@x.com"]
	s.mu.Unlock()

	assert.False(t, oldThere)
	assert.True(t, freshThere)
}
