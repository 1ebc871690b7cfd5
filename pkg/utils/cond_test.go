// pkg/utils/cond_test.go

package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCondSignalWakesWaiter(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	woke := make(chan struct{})
	go func() {
		mu.Lock()
		c.Wait()
		mu.Unlock()
		close(woke)
	}()

	time.Sleep(10 * time.Millisecond)
	c.Signal()
	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

func TestCondWaitWithTimeout(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	mu.Lock()
	timedOut := c.WaitWithTimeout(10 * time.Millisecond)
	mu.Unlock()
	assert.True(t, timedOut)

	c.Signal()
	mu.Lock()
	timedOut = c.WaitWithTimeout(time.Second)
	mu.Unlock()
	assert.False(t, timedOut)
}

func TestCondBroadcastWakesWaiter(t *testing.T) {
	var mu sync.Mutex
	c := NewCond(&mu)

	woke := make(chan struct{})
	go func() {
		mu.Lock()
		c.Wait()
		mu.Unlock()
		close(woke)
	}()

	time.Sleep(10 * time.Millisecond)
	c.Broadcast()
	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}
