package clock

import (
	"sync"
	"time"
)

// System wall clock
type System struct{}

// Now unix seconds
func (System) Now() int64 {
	return time.Now().Unix()
}

// Mock manually advanced clock
type Mock struct {
	mu  sync.Mutex
	now int64
}

// NewMock new mock clock starting at now
func NewMock(now int64) *Mock {
	return &Mock{now: now}
}

// Now unix seconds
func (m *Mock) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance move the clock forward by seconds
func (m *Mock) Advance(seconds int64) {
	m.mu.Lock()
	m.now += seconds
	m.mu.Unlock()
}

// Set set the clock
func (m *Mock) Set(now int64) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}
