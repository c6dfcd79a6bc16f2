package engine

import "sync/atomic"

// workContext is the full batch of work items for one client submission,
// plus the atomic progress counters workers race on to claim items and to
// detect completion.
//
// Invariants: nextIndex is monotonically non-decreasing and may pass
// count, since every claim attempt increments it and attempts at or past
// count are rejected; 0 <= doneCount <= count strictly increasing once per
// item completion; the context is complete iff doneCount == count.
type workContext struct {
	items     []workItem
	count     uint32
	nextIndex atomic.Uint32
	doneCount atomic.Uint32
}

func newWorkContext(items []workItem) *workContext {
	return &workContext{
		items: items,
		count: uint32(len(items)),
	}
}

// claimNext atomically grabs the next unclaimed item index. ok is false
// once every item has been claimed (by this worker or another).
func (c *workContext) claimNext() (index uint32, ok bool) {
	i := c.nextIndex.Add(1) - 1
	return i, i < c.count
}

