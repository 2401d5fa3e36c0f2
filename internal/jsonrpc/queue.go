package jsonrpc

// Queue holds commands waiting for dispatch.
//
// Pop takes from the same end Push appends to, so the queue drains as a
// stack: within one batch the last command runs first. Clients depend on
// this order.
//
// A Queue is not safe for concurrent use.
type Queue[T any] struct {
	items []T
}

// Push appends every element of batch, keeping batch order.
func (q *Queue[T]) Push(batch []T) {
	q.items = append(q.items, batch...)
}

// Pop removes and returns the most recently pushed element.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	n := len(q.items)
	if n == 0 {
		return zero, false
	}
	item := q.items[n-1]
	q.items[n-1] = zero
	q.items = q.items[:n-1]
	return item, true
}

// Reset drops every pending element.
func (q *Queue[T]) Reset() {
	clear(q.items)
	q.items = q.items[:0]
}

// Len returns the number of pending elements.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
