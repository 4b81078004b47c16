// queue package

package queue

import (
	"fmt"
	"sync"
)

const (
	// QueueBufferSize represents the default maximum size of a queue
	QueueBufferSize = 1024
)

// InMemoryQueue implements an in-memory queue.
type InMemoryQueue struct {
	ch   chan interface{}
	lock sync.RWMutex
}

// NewInMemoryQueue creates a new queue holding at most size items.
func NewInMemoryQueue(size int) *InMemoryQueue {
	if size <= 0 {
		size = QueueBufferSize
	}
	return &InMemoryQueue{
		ch: make(chan interface{}, size),
	}
}

// Enqueue adds an item to the end of the queue.
// It never blocks and fails when the queue is full.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	q.lock.RLock()
	defer q.lock.RUnlock()
	select {
	case q.ch <- item:
		return nil
	default:
		return fmt.Errorf("queue is full (%d items)", cap(q.ch))
	}
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	return len(q.ch)
}

// ReadAllMessages reads all pending messages in the queue
func (q *InMemoryQueue) ReadAllMessages() ([]interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	var messages []interface{}
	for len(q.ch) > 0 {
		messages = append(messages, <-q.ch)
	}

	return messages, nil
}
