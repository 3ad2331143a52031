// Package counter implements the shared revision counter and the two
// increment strategies raced against each other.
//
// A Counter is shared by pointer between all workers of a run. Inc performs
// a plain read-increment-write and loses updates under contention; SyncInc
// performs the same sequence while holding the counter's mutex, which every
// worker shares because they share the Counter.
//
// Rev is deliberately never guarded. In the unsynchronized mode it may
// observe a stale value, and even in the synchronized mode it is not a
// publication point for concurrent writers. Callers that need an exact
// value must read after all writers have been joined.
package counter

import (
	"math"
	"sync"
)

// MaxRev is the largest value the counter can hold.
const MaxRev = math.MaxInt32

// Counter is the shared mutable integer incremented by every worker.
type Counter struct {
	rev int32

	// mu serializes SyncInc. It is never taken by Inc or Rev.
	mu sync.Mutex
}

// New returns a counter starting at zero.
func New() *Counter {
	return &Counter{}
}

// Inc increments the counter without any synchronization.
//
// Concurrent calls race on rev: two overlapping increments can both read
// the same value and one of the writes is lost.
func (c *Counter) Inc() {
	c.rev++
}

// SyncInc increments the counter while holding the shared lock.
func (c *Counter) SyncInc() {
	c.mu.Lock()
	c.rev++
	c.mu.Unlock()
}

// Rev returns the current counter value without taking the lock.
func (c *Counter) Rev() int32 {
	return c.rev
}
