// Package events provides typed, synchronous publish/subscribe channels.
// Each channel delivers in publish order; nothing is promised across
// channels.
package events

// Channel carries events of one type to its subscribers on the publishing
// goroutine. A handler that publishes to the same channel has its event
// queued until the current delivery finishes.
type Channel[T any] struct {
	subs       []subscription[T]
	nextID     int
	pending    []T
	delivering bool
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewChannel creates an empty channel
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Subscribe registers fn and returns a function that removes it
func (c *Channel[T]) Subscribe(fn func(T)) func() {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription[T]{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to every subscriber in subscription order
func (c *Channel[T]) Publish(v T) {
	c.pending = append(c.pending, v)
	if c.delivering {
		return
	}
	c.delivering = true
	// a panicking handler drops the rest of the queue
	defer func() {
		c.delivering = false
		c.pending = nil
	}()

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		subs := append([]subscription[T](nil), c.subs...)
		for _, s := range subs {
			s.fn(next)
		}
	}
}

// Len returns the number of subscribers
func (c *Channel[T]) Len() int { return len(c.subs) }
