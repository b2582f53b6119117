package transport

// Semaphore bounds the number of concurrently attached bridges.
type Semaphore struct {
	slots chan struct{}
}

func NewSemaphore(maxConnections int) *Semaphore {
	if maxConnections <= 0 {
		maxConnections = DefaultMaxBridges
	}
	return &Semaphore{slots: make(chan struct{}, maxConnections)}
}

func (s *Semaphore) Acquire() bool {
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Semaphore) Release() {
	select {
	case <-s.slots:
	default:
	}
}

func (s *Semaphore) Current() int {
	return len(s.slots)
}
