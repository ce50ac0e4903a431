package models

import "math/rand/v2"

// IDAllocator hands out strictly increasing activity ids. It is not safe for
// concurrent use; callers that share one must serialize access.
type IDAllocator struct {
	last int64
}

// NewIDAllocator returns an allocator whose first id is seed+1.
func NewIDAllocator(seed int64) *IDAllocator {
	return &IDAllocator{last: seed}
}

// NewRandomIDAllocator seeds the allocator with a random multiple of ten
// in [0, 990].
func NewRandomIDAllocator() *IDAllocator {
	return NewIDAllocator(int64(rand.IntN(100)) * 10)
}

// Next returns the next id.
func (a *IDAllocator) Next() int64 {
	a.last++
	return a.last
}

// Observe moves the allocator past id so previously issued ids are never reused.
func (a *IDAllocator) Observe(id int64) {
	if id > a.last {
		a.last = id
	}
}

// Last returns the most recently issued or observed id.
func (a *IDAllocator) Last() int64 {
	return a.last
}
