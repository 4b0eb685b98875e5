// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"sync"
	"time"
)

// Ctl controls one running saturation instance: a monotone deadline and an
// asynchronous stop signal.  The engine polls Tick at every step boundary
// and between generating inference calls; nothing is retracted on halt.
type Ctl struct {
	mu       sync.Mutex
	deadline time.Time
	stopped  bool
	ticks    int64
}

// NewCtl creates a Ctl with no deadline.
func NewCtl() *Ctl { return &Ctl{} }

// SetDeadline installs an absolute deadline.  Deadlines only move earlier;
// a later deadline than the current one is ignored.
func (c *Ctl) SetDeadline(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadline.IsZero() || t.Before(c.deadline) {
		c.deadline = t
	}
}

// SetTimeout installs a deadline d from now.
func (c *Ctl) SetTimeout(d time.Duration) { c.SetDeadline(time.Now().Add(d)) }

// Stop asynchronously halts the instance at its next tick.
func (c *Ctl) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

// Tick reports whether the instance may continue.
func (c *Ctl) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	if c.stopped {
		return false
	}
	if !c.deadline.IsZero() && !time.Now().Before(c.deadline) {
		return false
	}
	return true
}

// Expired reports whether the halt was caused by the deadline rather than
// Stop.
func (c *Ctl) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.deadline.IsZero() && !time.Now().Before(c.deadline) && !c.stopped
}

// Ticks returns the number of Tick calls so far.
func (c *Ctl) Ticks() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
