package playlist

import "sync"

// Queue is a FIFO of track indices waiting to be played
type Queue struct {
	indices []int
	mu      sync.RWMutex
}

// NewQueue creates a new empty queue
func NewQueue() *Queue {
	return &Queue{
		indices: make([]int, 0),
	}
}

// Push appends indices to the tail of the queue
func (q *Queue) Push(indices ...int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.indices = append(q.indices, indices...)
}

// Pop removes and returns the head of the queue
func (q *Queue) Pop() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.indices) == 0 {
		return 0, false
	}

	head := q.indices[0]
	q.indices = q.indices[1:]
	if len(q.indices) == 0 {
		// Drop the backing array once drained
		q.indices = make([]int, 0)
	}
	return head, true
}

// Peek returns the head of the queue without removing it
func (q *Queue) Peek() (int, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.indices) == 0 {
		return 0, false
	}
	return q.indices[0], true
}

// Set replaces the entire queue
func (q *Queue) Set(indices []int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.indices = make([]int, len(indices))
	copy(q.indices, indices)
}

// Clear removes all indices from the queue
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.indices = make([]int, 0)
}

// GetAll returns a copy of the queued indices, head first
func (q *Queue) GetAll() []int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]int, len(q.indices))
	copy(result, q.indices)
	return result
}

// Len returns the number of queued indices
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.indices)
}
