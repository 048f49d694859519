package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := newIPRateLimiter(2 * time.Second)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(2 * time.Second)
	assert.True(t, rl.allow("1.1.1.1"))

	now = now.Add(5 * time.Second)
	rl.sweep()
	assert.Empty(t, rl.times)
}

func TestIPRateLimiterRunStops(t *testing.T) {
	rl := newIPRateLimiter(time.Millisecond)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		rl.run(time.Millisecond, stop)
		close(done)
	}()
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after stop")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "8.8.8.8")
	assert.Equal(t, "8.8.8.8", clientIP(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(r))
}
