package app

import "sync"

// Serialized lets several front ends (HTTP, MCP) share one Controller by
// running every call under a single mutex.
type Serialized struct {
	mu sync.Mutex
	c  *Controller
}

func NewSerialized(c *Controller) *Serialized {
	return &Serialized{c: c}
}

// Do runs fn with exclusive access to the controller.
func (s *Serialized) Do(fn func(c *Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.c)
}
