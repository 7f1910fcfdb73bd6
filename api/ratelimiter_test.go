package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	rl := newRateLimiter(2)
	rl.expirationTTL = 30 * time.Millisecond

	// check existing limiter should be returned

	l := rl.getLimiter("key1")
	assert.Equal(t, rl.getLimiter("key1"), l)

	// check lastSeen should be updated

	now := time.Now().UnixNano()

	time.Sleep(10 * time.Millisecond)

	l = rl.getLimiter("key1")
	assert.True(t, l.lastSeen > now)

	// check limiter rejects once the burst is spent

	burst := rl.getLimiter("key2")
	assert.True(t, burst.limiter.Allow())
	assert.True(t, burst.limiter.Allow())
	assert.False(t, burst.limiter.Allow())

	// check cleanup

	done := make(chan struct{})
	go func() {
		stop := rl.cleanup(30 * time.Millisecond)
		time.Sleep(100 * time.Millisecond)
		stop()

		close(done)
	}()
	<-done
	assert.Nil(t, rl.limiters["key1"])
}
