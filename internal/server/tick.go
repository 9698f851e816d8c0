package server

import (
	"sort"
	"sync"
	"time"
)

// TickService fires every registered callback once per interval, in name
// order, on a single goroutine.
//
// Invariant: callbacks never run concurrently with each other.
type TickService struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func()
	stop     chan struct{}
	once     sync.Once
}

// NewTickService returns a service that fires ticks every interval.
//
// Precondition: interval must be > 0.
func NewTickService(interval time.Duration) *TickService {
	if interval <= 0 {
		panic("server.NewTickService: interval must be > 0")
	}
	return &TickService{
		interval: interval,
		ticks:    make(map[string]func()),
		stop:     make(chan struct{}),
	}
}

// Register sets the callback for name, replacing any existing one.
func (s *TickService) Register(name string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks[name] = fn
}

// Unregister removes the callback for name.
func (s *TickService) Unregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ticks, name)
}

// Fire runs every callback once.
func (s *TickService) Fire() {
	s.mu.Lock()
	names := make([]string, 0, len(s.ticks))
	for n := range s.ticks {
		names = append(names, n)
	}
	sort.Strings(names)
	fns := make([]func(), 0, len(names))
	for _, n := range names {
		fns = append(fns, s.ticks[n])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Start runs the tick loop until Stop is called.
func (s *TickService) Start() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.Fire()
		}
	}
}

// Stop ends the tick loop. Safe to call more than once.
func (s *TickService) Stop() {
	s.once.Do(func() { close(s.stop) })
}
