package engine

// noIndex marks the absence of a node: the end of a list, or "not
// queued"/"not on the free list".
const noIndex int32 = -1

// node is a queue link carrying a work context. A node has exactly one of
// two ownership roles at a time: member of the arena's free list, or
// member of the controller's queue — never both. next is an index into
// the arena's backing storage rather than a pointer, so the whole arena is
// one contiguous, allocation-free block (the index-linked encoding the
// design notes call out as an acceptable substitute for Node*).
type node struct {
	ctx  *workContext
	next int32
}

// arena is fixed-capacity storage for nodes, managed as a free list. Every
// index is reachable either through the free list or the queue, exactly
// once. All arena methods assume the caller already holds the owning
// controller's lock — the free-list head is controller-guarded state, not
// independently synchronized, per the design's "modified only under the
// queue lock" rule.
type arena struct {
	storage  []node
	freeHead int32
}

func newArena(size int) *arena {
	if size < 1 {
		size = DefaultArenaSize
	}
	a := &arena{storage: make([]node, size)}
	for i := range a.storage {
		if i == len(a.storage)-1 {
			a.storage[i].next = noIndex
		} else {
			a.storage[i].next = int32(i + 1)
		}
	}
	a.freeHead = 0
	return a
}

func (a *arena) len() int { return len(a.storage) }

// acquire pops the head of the free list. ok is false when the arena is
// exhausted; callers decide whether that is a queue_full failure or a
// reason to block and retry.
func (a *arena) acquire() (idx int32, ok bool) {
	if a.freeHead == noIndex {
		return noIndex, false
	}
	idx = a.freeHead
	a.freeHead = a.storage[idx].next
	a.storage[idx].next = noIndex
	return idx, true
}

// release clears a node's context and pushes it onto the free list head.
func (a *arena) release(idx int32) {
	a.storage[idx].ctx = nil
	a.storage[idx].next = a.freeHead
	a.freeHead = idx
}

// freeCount walks the free list and counts its members; used only by
// tests and the diagnostics snapshot, never on the hot path.
func (a *arena) freeCount() int {
	n := 0
	for i := a.freeHead; i != noIndex; i = a.storage[i].next {
		n++
	}
	return n
}
