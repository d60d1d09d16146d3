package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	var q Queue[int]
	assert.True(t, q.Empty())

	q.Push(1)
	assert.False(t, q.Empty())
	assert.Equal(t, q.Pop(), 1)
	assert.True(t, q.Empty())

	q.Push(2)
	q.Push(3)

	assert.Equal(t, q.Pop(), 2)
	assert.Equal(t, q.Pop(), 3)
	assert.True(t, q.Empty())

	assert.Panics(t, func() { q.Pop() })
}

func TestWorklist(t *testing.T) {
	var w Worklist[int]
	assert.True(t, w.Empty())

	w.Push(1)
	w.Push(2)
	w.Push(1) // duplicate, dropped
	assert.Equal(t, w.Pop(), 1)
	assert.Equal(t, w.Pop(), 2)
	assert.True(t, w.Empty())

	// After popping, an element may be queued again.
	w.Push(1)
	w.Push(1)
	assert.Equal(t, w.Pop(), 1)
	assert.True(t, w.Empty())

	assert.Panics(t, func() { w.Pop() })
}
