package queue

import "errors"

type Queue[E any] struct {
	elements []E
}

func (q *Queue[E]) Push(e E) {
	q.elements = append(q.elements, e)
}

func (q *Queue[E]) Empty() bool {
	return len(q.elements) == 0
}

var ErrEmpty = errors.New("Queue is empty")

func (q *Queue[E]) Pop() E {
	if q.Empty() {
		panic(ErrEmpty)
	}

	e := q.elements[0]
	q.elements = q.elements[1:]
	return e
}

// Worklist is a FIFO queue with a membership set: pushing an element that
// is already queued is a no-op. The zero value is an empty worklist.
type Worklist[E comparable] struct {
	queue    Queue[E]
	enqueued map[E]bool
}

func (w *Worklist[E]) Push(e E) {
	if w.enqueued[e] {
		return
	}

	if w.enqueued == nil {
		w.enqueued = make(map[E]bool)
	}
	w.enqueued[e] = true
	w.queue.Push(e)
}

func (w *Worklist[E]) Empty() bool {
	return w.queue.Empty()
}

func (w *Worklist[E]) Pop() E {
	e := w.queue.Pop()
	delete(w.enqueued, e)
	return e
}
