package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishOrder(t *testing.T) {
	ch := NewChannel[int]()
	var got []string
	ch.Subscribe(func(v int) { got = append(got, "a", string(rune('0'+v))) })
	ch.Subscribe(func(v int) { got = append(got, "b", string(rune('0'+v))) })

	ch.Publish(1)
	ch.Publish(2)

	assert.Equal(t, []string{"a", "1", "b", "1", "a", "2", "b", "2"}, got)
}

func TestReentrantPublishIsQueued(t *testing.T) {
	ch := NewChannel[int]()
	var got []int
	ch.Subscribe(func(v int) {
		got = append(got, v)
		if v == 1 {
			ch.Publish(2)
		}
	})
	ch.Subscribe(func(v int) { got = append(got, v*10) })

	ch.Publish(1)

	assert.Equal(t, []int{1, 10, 2, 20}, got)
}

func TestUnsubscribe(t *testing.T) {
	ch := NewChannel[string]()
	count := 0
	stop := ch.Subscribe(func(string) { count++ })
	ch.Publish("x")
	stop()
	stop()
	ch.Publish("y")

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, ch.Len())
}

func TestPanicDropsQueuedEvents(t *testing.T) {
	ch := NewChannel[int]()
	var got []int
	ch.Subscribe(func(v int) {
		got = append(got, v)
		if v == 1 {
			ch.Publish(2)
			panic("handler failed")
		}
	})

	assert.Panics(t, func() { ch.Publish(1) })
	ch.Publish(3)

	assert.Equal(t, []int{1, 3}, got)
}
